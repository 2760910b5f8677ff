// Command seed creates a database pre-populated with a sample family.
// Usage: go run cmd/seed/main.go [-db path/to/famhub.db]
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/famhub/famhub/internal/auth"
	"github.com/famhub/famhub/internal/database"
	"github.com/famhub/famhub/internal/database/activities"
	"github.com/famhub/famhub/internal/database/books"
	"github.com/famhub/famhub/internal/database/families"
	"github.com/famhub/famhub/internal/database/goals"
	"github.com/famhub/famhub/internal/database/streaming"
	"github.com/famhub/famhub/internal/database/users"
	"github.com/famhub/famhub/internal/entities"
)

const (
	defaultSeedDatabasePath = "./famhub.db"
	seedPassword            = "Password123!"
)

type stores struct {
	users      *users.Repository
	families   *families.Repository
	books      *books.Repository
	streaming  *streaming.Repository
	goals      *goals.Repository
	activities *activities.Repository
}

func main() {
	dbPath := flag.String("db", defaultSeedDatabasePath, "path to the database file")
	flag.Parse()

	log.Printf("Seeding database at %s...", *dbPath)

	// Delete existing database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	s := &stores{
		users:      users.NewRepository(db.DB),
		families:   families.NewRepository(db.DB),
		books:      books.NewRepository(db.DB),
		streaming:  streaming.NewRepository(db.DB),
		goals:      goals.NewRepository(db.DB),
		activities: activities.NewRepository(db.DB),
	}

	family, err := s.families.Create(families.CreateData{
		Name:        "The Johnson Family",
		Description: "Our cozy reading and movie corner",
		MaxMembers:  6,
	})
	if err != nil {
		log.Fatalf("Failed to create family: %v", err)
	}
	log.Printf("Created family %q with invite code %s", family.Name, family.InviteCode)

	members := createMembers(s, family.ID)
	seedBooks(s, family.ID, members)
	seedStreaming(s, family.ID, members)
	seedGoals(s, members)

	log.Printf("Done. All accounts use the password %q.", seedPassword)
}

func createMembers(s *stores, familyID uint) map[string]*entities.User {
	hash, err := auth.HashPassword(seedPassword, 10)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	specs := []struct {
		key       string
		email     string
		username  string
		firstName string
		lastName  string
		role      entities.UserRole
	}{
		{"sarah", "sarah@johnson.family", "sarahj", "Sarah", "Johnson", entities.UserRoleParent},
		{"mike", "mike@johnson.family", "mikej", "Mike", "Johnson", entities.UserRoleParent},
		{"emma", "emma@johnson.family", "emmaj", "Emma", "Johnson", entities.UserRoleChild},
		{"jake", "jake@johnson.family", "jakej", "Jake", "Johnson", entities.UserRoleChild},
	}

	verified := true
	created := make(map[string]*entities.User, len(specs))
	for _, spec := range specs {
		user, err := s.users.Create(users.CreateData{
			Email:        spec.email,
			Username:     spec.username,
			FirstName:    spec.firstName,
			LastName:     spec.lastName,
			PasswordHash: hash,
			Role:         spec.role,
			FamilyID:     &familyID,
		})
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", spec.email, err)
		}
		if _, err := s.users.Update(user.ID, users.UpdateData{EmailVerified: &verified}); err != nil {
			log.Printf("Failed to mark %s verified: %v", spec.email, err)
		}
		created[spec.key] = user

		_, err = s.activities.Record(activities.RecordData{
			UserID:   user.ID,
			FamilyID: familyID,
			Type:     entities.ActivityTypeMemberJoined,
			Title:    spec.firstName + " joined the family",
			IsPublic: true,
		})
		if err != nil {
			log.Printf("Failed to record join for %s: %v", spec.email, err)
		}

		log.Printf("Created %s (%s)", spec.email, spec.role)
	}
	return created
}

func seedBooks(s *stores, familyID uint, members map[string]*entities.User) {
	duneISBN := "9780441013593"
	hobbitISBN := "9780547928227"

	catalog := []struct {
		data   books.CreateData
		reader string
		shelf  books.ShelfData
	}{
		{
			data: books.CreateData{
				FamilyID:      familyID,
				Title:         "Dune",
				Author:        "Frank Herbert",
				ISBN:          &duneISBN,
				Genre:         "Science Fiction",
				PublishedYear: 1965,
				PageCount:     412,
			},
			reader: "mike",
			shelf:  books.ShelfData{Status: entities.BookStatusReading, Progress: intPtr(180)},
		},
		{
			data: books.CreateData{
				FamilyID:      familyID,
				Title:         "The Hobbit",
				Author:        "J.R.R. Tolkien",
				ISBN:          &hobbitISBN,
				Genre:         "Fantasy",
				PublishedYear: 1937,
				PageCount:     310,
			},
			reader: "emma",
			shelf:  books.ShelfData{Status: entities.BookStatusCompleted, Rating: intPtr(5)},
		},
		{
			data: books.CreateData{
				FamilyID:      familyID,
				Title:         "Charlotte's Web",
				Author:        "E.B. White",
				Genre:         "Children's Fiction",
				PublishedYear: 1952,
				PageCount:     192,
			},
			reader: "jake",
			shelf:  books.ShelfData{Status: entities.BookStatusWishlist},
		},
		{
			data: books.CreateData{
				FamilyID:      familyID,
				Title:         "Educated",
				Author:        "Tara Westover",
				Genre:         "Memoir",
				PublishedYear: 2018,
				PageCount:     334,
			},
			reader: "sarah",
			shelf:  books.ShelfData{Status: entities.BookStatusCompleted, Rating: intPtr(4)},
		},
	}

	for _, entry := range catalog {
		book, err := s.books.Create(entry.data)
		if err != nil {
			log.Printf("Failed to create book %s: %v", entry.data.Title, err)
			continue
		}

		reader := members[entry.reader]
		if _, err := s.books.AddToShelf(reader.ID, book.ID, entry.shelf); err != nil {
			log.Printf("Failed to shelve %s for %s: %v", book.Title, reader.Username, err)
			continue
		}

		_, err = s.activities.Record(activities.RecordData{
			UserID:   reader.ID,
			FamilyID: familyID,
			Type:     entities.ActivityTypeBookAdded,
			Title:    reader.FirstName + " added " + book.Title,
			IsPublic: true,
		})
		if err != nil {
			log.Printf("Failed to record activity for %s: %v", book.Title, err)
		}

		log.Printf("Added book: %s by %s", book.Title, book.Author)
	}
}

func seedStreaming(s *stores, familyID uint, members map[string]*entities.User) {
	show, err := s.streaming.Create(streaming.CreateData{
		FamilyID:     familyID,
		Title:        "Avatar: The Last Airbender",
		Type:         entities.ContentTypeTVShow,
		Genre:        "Animation",
		ReleaseYear:  2005,
		TotalSeasons: 3,
	})
	if err != nil {
		log.Fatalf("Failed to create streaming content: %v", err)
	}

	episodes := []streaming.EpisodeData{
		{SeasonNumber: 1, EpisodeNumber: 1, Title: "The Boy in the Iceberg", Runtime: 23},
		{SeasonNumber: 1, EpisodeNumber: 2, Title: "The Avatar Returns", Runtime: 23},
		{SeasonNumber: 1, EpisodeNumber: 3, Title: "The Southern Air Temple", Runtime: 23},
	}
	for _, ep := range episodes {
		if _, err := s.streaming.AddEpisode(show.ID, ep); err != nil {
			log.Printf("Failed to add episode %d: %v", ep.EpisodeNumber, err)
		}
	}

	jake := members["jake"]
	watch := streaming.WatchData{
		Status:         entities.StreamingStatusWatching,
		CurrentSeason:  intPtr(1),
		CurrentEpisode: intPtr(3),
	}
	if _, err := s.streaming.AddToWatchlist(jake.ID, show.ID, watch); err != nil {
		log.Printf("Failed to add %s to watchlist: %v", show.Title, err)
	}

	movie, err := s.streaming.Create(streaming.CreateData{
		FamilyID:    familyID,
		Title:       "Spirited Away",
		Type:        entities.ContentTypeMovie,
		Genre:       "Animation",
		ReleaseYear: 2001,
		Runtime:     125,
		Director:    "Hayao Miyazaki",
	})
	if err != nil {
		log.Fatalf("Failed to create movie: %v", err)
	}

	emma := members["emma"]
	done := streaming.WatchData{
		Status: entities.StreamingStatusCompleted,
		Rating: intPtr(5),
	}
	if _, err := s.streaming.AddToWatchlist(emma.ID, movie.ID, done); err != nil {
		log.Printf("Failed to add %s to watchlist: %v", movie.Title, err)
	}

	log.Printf("Added streaming content: %s, %s", show.Title, movie.Title)
}

func seedGoals(s *stores, members map[string]*entities.User) {
	year := time.Now().Year()

	targets := map[string]int{
		"sarah": 24,
		"mike":  12,
		"emma":  30,
		"jake":  10,
	}
	progress := map[string]int{
		"sarah": 9,
		"mike":  4,
		"emma":  14,
		"jake":  2,
	}

	for key, target := range targets {
		user := members[key]
		if _, err := s.goals.Upsert(user.ID, year, target); err != nil {
			log.Printf("Failed to set goal for %s: %v", user.Username, err)
			continue
		}
		if _, err := s.goals.AddProgress(user.ID, year, progress[key]); err != nil {
			log.Printf("Failed to set progress for %s: %v", user.Username, err)
		}
	}

	log.Printf("Set %d reading goals for %d", len(targets), year)
}

func intPtr(v int) *int { return &v }
