package testutil

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel/internal/database"
	"hotel/internal/domain"
)

// NewDB opens a private in-memory sqlite database with the full schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:hotel_test_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err, "open sqlite db")
	require.NoError(t, database.Migrate(db), "migrate db")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// Logger discards output so tests stay quiet.
func Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func Date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func Money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func CreateUser(t testing.TB, db *gorm.DB, role domain.UserRole) *domain.User {
	t.Helper()
	var n int64
	db.Model(&domain.User{}).Count(&n)
	u := &domain.User{
		FullName:     "Guest " + fmt.Sprint(n+1),
		Email:        fmt.Sprintf("guest%d@hotel.test", n+1),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreateRoom inserts a room together with a dedicated room type priced at basePrice.
func CreateRoom(t testing.TB, db *gorm.DB, number string, basePrice string, status domain.RoomStatus) *domain.Room {
	t.Helper()
	rt := &domain.RoomType{Name: "Type " + number, Capacity: 2, BasePrice: Money(basePrice), IsActive: true}
	require.NoError(t, db.Create(rt).Error)
	r := &domain.Room{RoomNumber: number, RoomTypeID: rt.ID, Status: status}
	require.NoError(t, db.Create(r).Error)
	return r
}

// CreateBooking inserts a booking and its room links directly, bypassing
// availability checks. Each room is linked at rate.
func CreateBooking(t testing.TB, db *gorm.DB, userID int64, checkin, checkout string, status domain.BookingStatus, rate string, rooms ...*domain.Room) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		UserID:       userID,
		CheckinDate:  datatypes.Date(Date(checkin)),
		CheckoutDate: datatypes.Date(Date(checkout)),
		Status:       status,
		Source:       domain.SourceWebsite,
	}
	require.NoError(t, db.Create(b).Error)
	for _, r := range rooms {
		link := &domain.BookingRoom{BookingID: b.ID, RoomID: r.ID, PricePerNight: Money(rate)}
		require.NoError(t, db.Create(link).Error)
	}
	return b
}

func CreateService(t testing.TB, db *gorm.DB, name, price string) *domain.Service {
	t.Helper()
	s := &domain.Service{Name: name, Price: Money(price), Unit: "item"}
	require.NoError(t, db.Create(s).Error)
	return s
}

func AddUsage(t testing.TB, db *gorm.DB, bookingID int64, svc *domain.Service, qty int) *domain.ServiceUsage {
	t.Helper()
	u := &domain.ServiceUsage{
		BookingID:  bookingID,
		ServiceID:  svc.ID,
		Quantity:   qty,
		TotalPrice: svc.Price.Mul(decimal.NewFromInt(int64(qty))),
		UsageTime:  time.Now().UTC(),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func CreatePayment(t testing.TB, db *gorm.DB, bookingID int64, amount string, method domain.PaymentMethod, status domain.PaymentStatus) *domain.Payment {
	t.Helper()
	p := &domain.Payment{BookingID: bookingID, Amount: Money(amount), Method: method, Status: status}
	require.NoError(t, db.Create(p).Error)
	return p
}

func ReloadRoom(t testing.TB, db *gorm.DB, id int64) *domain.Room {
	t.Helper()
	var r domain.Room
	require.NoError(t, db.First(&r, id).Error)
	return &r
}

func ReloadBooking(t testing.TB, db *gorm.DB, id int64) *domain.Booking {
	t.Helper()
	var b domain.Booking
	require.NoError(t, db.First(&b, id).Error)
	return &b
}

func ReloadPayment(t testing.TB, db *gorm.DB, id int64) *domain.Payment {
	t.Helper()
	var p domain.Payment
	require.NoError(t, db.First(&p, id).Error)
	return &p
}
