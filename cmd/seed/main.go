package main

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel/internal/config"
	"hotel/internal/database"
	"hotel/internal/domain"
	"hotel/internal/pkg/jwt"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if cfg.IsProdLike() {
		log.Fatal("refusing to seed a production database")
	}

	db, err := database.Connect(cfg.DB.URL, log)
	if err != nil {
		log.WithError(err).Fatal("DB connection failed")
	}

	log.Info("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.WithError(err).Fatal("AutoMigrate failed")
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Info("Cleaning old data...")
	for _, table := range []string{"invoices", "payments", "service_usage", "booking_rooms", "bookings", "rooms", "room_types", "services", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.WithError(err).WithField("table", table).Fatal("cleanup failed")
		}
	}

	// ================== USERS ==================
	log.Info("Creating users...")
	admin := mustUser(log, db, "Administrator", "admin@hotel.local", "admin123", domain.RoleAdmin)
	mustUser(log, db, "Front Desk", "staff@hotel.local", "staff123", domain.RoleStaff)
	for i := 1; i <= 3; i++ {
		mustUser(log, db, fmt.Sprintf("Guest %d", i), fmt.Sprintf("guest%d@hotel.local", i), "guest123", domain.RoleUser)
	}

	// ================== ROOMS ==================
	log.Info("Creating room types and rooms...")
	types := []domain.RoomType{
		{Name: "Standard", Capacity: 2, BasePrice: decimal.NewFromInt(800000), Description: "Queen bed, city view", IsActive: true},
		{Name: "Deluxe", Capacity: 2, BasePrice: decimal.NewFromInt(1500000), Description: "King bed, balcony", IsActive: true},
		{Name: "Family Suite", Capacity: 4, BasePrice: decimal.NewFromInt(2500000), Description: "Two bedrooms", IsActive: true},
	}
	if err := db.Create(&types).Error; err != nil {
		log.WithError(err).Fatal("create room types")
	}

	var rooms []domain.Room
	for floor := 1; floor <= 3; floor++ {
		for n := 1; n <= 4; n++ {
			rt := types[(n-1)%len(types)]
			rooms = append(rooms, domain.Room{
				RoomNumber: fmt.Sprintf("%d%02d", floor, n),
				RoomTypeID: rt.ID,
				Status:     domain.RoomAvailable,
			})
		}
	}
	rooms[len(rooms)-1].Status = domain.RoomMaintenance
	if err := db.Omit(clause.Associations).Create(&rooms).Error; err != nil {
		log.WithError(err).Fatal("create rooms")
	}

	// ================== SERVICES ==================
	log.Info("Creating services...")
	services := []domain.Service{
		{Name: "Breakfast", Price: decimal.NewFromInt(150000), Unit: "person"},
		{Name: "Laundry", Price: decimal.NewFromInt(50000), Unit: "kg"},
		{Name: "Airport transfer", Price: decimal.NewFromInt(400000), Unit: "trip"},
		{Name: "Spa", Price: decimal.NewFromInt(600000), Unit: "session"},
	}
	if err := db.Create(&services).Error; err != nil {
		log.WithError(err).Fatal("create services")
	}

	token, err := jwt.New(cfg.JWT.Secret, cfg.JWT.TTL).GenerateToken(admin.ID, domain.RoleAdmin)
	if err != nil {
		log.WithError(err).Fatal("issue admin token")
	}

	log.WithFields(logrus.Fields{
		"room_types": len(types),
		"rooms":      len(rooms),
		"services":   len(services),
	}).Info("Seed completed")
	log.WithField("token", token).Info("Admin bearer token for local testing")
}

func mustUser(log *logrus.Logger, db *gorm.DB, name, email, password string, role domain.UserRole) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.WithError(err).Fatal("hash password")
	}
	u := &domain.User{FullName: name, Email: email, PasswordHash: string(hash), Role: role}
	if err := db.Create(u).Error; err != nil {
		log.WithError(err).WithField("email", email).Fatal("create user")
	}
	log.Infof("%s created: %s / %s", role, email, password)
	return u
}
