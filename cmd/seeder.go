package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with bootstrap data",
	Long:  `Seed the super admin account, the default platform and the global organization types.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		password := "changeme-on-first-login"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), cfg.Security.BCryptCost)

		adminEmail := "root@tenant.local"
		var exists int
		adminExists := false
		if err := db.Raw("SELECT 1 FROM users WHERE email = ?", adminEmail).Row().Scan(&exists); err == nil {
			fmt.Println("super admin already exists:", adminEmail)
			adminExists = true
		}

		if !adminExists {
			err := db.Exec(`INSERT INTO users (username, email, name, password_hash, role, status, disabled, created_at, updated_at)
				VALUES (?, ?, ?, ?, 'super_admin', 'active', false, now(), now())`,
				"root", adminEmail, "Super Admin", string(hash)).Error
			if err != nil {
				log.Fatalf("failed to insert super admin: %v", err)
			}
			fmt.Println("Seeded super admin:", adminEmail)
		}

		var adminID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", adminEmail).Row().Scan(&adminID); err != nil {
			log.Fatalf("failed to lookup super admin id: %v", err)
		}

		platformName := "Default Platform"
		platformExists := false
		if err := db.Raw("SELECT 1 FROM platforms WHERE slug = ?", "default").Row().Scan(&exists); err == nil {
			fmt.Println("default platform already exists")
			platformExists = true
		}

		if !platformExists {
			err := db.Exec(`INSERT INTO platforms (name, slug, description, status, created_by, created_at, updated_at)
				VALUES (?, 'default', 'Bootstrap platform', 'active', ?, now(), now())`,
				platformName, adminID).Error
			if err != nil {
				log.Fatalf("failed to insert default platform: %v", err)
			}
			fmt.Println("Seeded default platform:", platformName)
		}

		orgTypes := []struct {
			Code     string
			Category string
		}{
			{"enterprise", "commercial"},
			{"small-business", "commercial"},
			{"non-profit", "civil"},
			{"education", "civil"},
			{"government", "public"},
		}

		for _, t := range orgTypes {
			if err := db.Raw("SELECT 1 FROM organization_types WHERE code = ? AND scope = 'global'", t.Code).Row().Scan(&exists); err == nil {
				continue
			}
			err := db.Exec(`INSERT INTO organization_types (code, category, scope, status, usage_count, created_at, updated_at)
				VALUES (?, ?, 'global', 'active', 0, now(), now())`,
				t.Code, t.Category).Error
			if err != nil {
				log.Fatalf("failed to insert organization type %s: %v", t.Code, err)
			}
			fmt.Printf("Seeded organization type: %s\n", t.Code)
		}

		fmt.Println("Bootstrap data seeded successfully")
	},
}
