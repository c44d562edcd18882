package main

import (
	"os"

	"notescraft-be/internal/entity"
	"notescraft-be/internal/mapper"
	"notescraft-be/internal/model"
	"notescraft-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	demoEmail    = "demo@notescraft.app"
	demoPassword = "demo-password"
	demoFullName = "Demo User"
)

func main() {
	color.Cyan("=== Notes Craft Seeder ===")

	if err := godotenv.Load(); err != nil {
		color.Yellow("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	user, err := seedDemoUser(db)
	if err != nil {
		color.Red("Failed to seed demo user: %v", err)
		os.Exit(1)
	}
	color.Green("Demo user ready: %s (%s)", user.Email, user.Id)

	count, err := seedSampleNotes(db, user)
	if err != nil {
		color.Red("Failed to seed sample notes: %v", err)
		os.Exit(1)
	}
	color.Green("Sample notes ready: %d", count)

	color.Cyan("=== Seeding completed ===")
}

// seedDemoUser is idempotent: rerunning the seeder keeps the existing user.
func seedDemoUser(db *gorm.DB) (*model.User, error) {
	var existing model.User
	err := db.Where("email = ?", demoEmail).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	hashStr := string(hash)
	user := model.User{
		Email:        demoEmail,
		PasswordHash: &hashStr,
		FullName:     demoFullName,
		Status:       "active",
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func seedSampleNotes(db *gorm.DB, user *model.User) (int, error) {
	var count int64
	if err := db.Model(&model.Note{}).Where("user_id = ?", user.Id).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		color.Yellow("User already has %d notes, skipping note seed", count)
		return int(count), nil
	}

	noteMapper := mapper.NewNoteMapper()
	notes := []entity.Note{
		tripPlanNote(user),
		snippetsNote(user),
	}

	for i := range notes {
		m, err := noteMapper.ToModel(&notes[i])
		if err != nil {
			return 0, err
		}
		if err := db.Create(m).Error; err != nil {
			return 0, err
		}
		color.Green("Created note %q (%s)", m.Title, m.Id)
	}
	return len(notes), nil
}

func tripPlanNote(user *model.User) entity.Note {
	note := entity.NewDefaultNote(user.Id)
	note.Title = "Trip Plan"
	note.Background = entity.Background{
		Type:  entity.BackgroundGradient,
		Value: "linear-gradient(135deg, #667eea 0%, #764ba2 100%)",
	}

	packing := entity.NewSection("Packing List")
	for _, item := range []string{"Passport", "Chargers", "Hiking boots"} {
		b := entity.NewBlock(entity.BlockTypeBullet)
		b.Content = item
		packing.Content = append(packing.Content, b)
	}

	itinerary := entity.NewSection("Itinerary")
	day := entity.NewBlock(entity.BlockTypeSubheading)
	day.Content = "Day 1"
	arrival := entity.NewBlock(entity.BlockTypeText)
	arrival.Content = "Arrive in the afternoon, check in, walk the old town."
	arrival.Style = &entity.BlockStyle{Italic: true}
	itinerary.Content = append(itinerary.Content, day, arrival)

	note.Sections = []entity.Section{packing, itinerary}
	return note
}

func snippetsNote(user *model.User) entity.Note {
	note := entity.NewDefaultNote(user.Id)
	note.Title = "Code Snippets"

	section := entity.NewSection("Go")
	intro := entity.NewBlock(entity.BlockTypeText)
	intro.Content = "Handy snippets collected while learning Go."
	snippet := entity.NewBlock(entity.BlockTypeCode)
	snippet.Language = "go"
	snippet.Content = "fmt.Println(\"hello, notes\")"
	section.Content = append(section.Content, intro, snippet)

	note.Sections = []entity.Section{section}
	return note
}
