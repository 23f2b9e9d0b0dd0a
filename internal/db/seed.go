package db

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

// SeedTestData resets the database and populates it with demo users.
//
// Behavior:
//  1. Clears all five tables.
//  2. Creates 20 Telegram users (ids 100001..100020) with profiles and photos.
//  3. Generates likes with ~70% like probability; every 3rd pair is forced
//     mutual and gets its match row linked the way the live write path does.
//
// Compatible with MySQL, Postgres and SQLite (sequence reset is per-driver).
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, table := range []string{"likes", "matches", "photos", "profiles", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		for _, table := range []string{"likes", "matches", "photos", "profiles", "users"} {
			db.Exec("ALTER TABLE " + table + " AUTO_INCREMENT = 1")
		}
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('likes','matches','photos','profiles','users')")
	}

	log.Println("Cleared existing data")

	// --- Users + profiles + photos ---
	users := make([]User, 0, 20)
	for i := 1; i <= 20; i++ {
		gender := "male"
		lookingFor := "female"
		if i > 10 {
			gender, lookingFor = "female", "male"
		}

		user := User{
			TelegramID:   int64(100000 + i),
			Username:     fmt.Sprintf("demo_user%d", i),
			FirstName:    fmt.Sprintf("Demo%d", i),
			LanguageCode: "en",
			Active:       true,
			Premium:      i%5 == 0,
		}
		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}

		profile := Profile{
			UserID:      user.ID,
			DisplayName: user.FirstName,
			Age:         18 + r.Intn(30),
			Bio:         "Demo account",
			City:        "Berlin",
			Gender:      gender,
			LookingFor:  lookingFor,
			MinAge:      18,
			MaxAge:      99,
			Visible:     true,
			Complete:    true,
		}
		if err := db.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to seed profile: %w", err)
		}

		photo := Photo{
			ProfileID: profile.ID,
			URL:       fmt.Sprintf("https://picsum.photos/seed/%d/400", i),
			Primary:   true,
		}
		if err := db.Create(&photo).Error; err != nil {
			return fmt.Errorf("failed to seed photo: %w", err)
		}

		users = append(users, user)
	}
	log.Println("Seeded 20 users with profiles and photos.")

	// --- Likes, with mutual pairs producing matches ---
	counter := 0
	seeded := make(map[[2]uint64]bool)
	for i, actor := range users {
		for j := 0; j < 6; j++ {
			other := users[r.Intn(len(users))]
			if other.ID == actor.ID || (i < 10) == (other.TelegramID <= 100010) {
				continue
			}
			// one row per direction, same as the live write path
			if seeded[[2]uint64{actor.ID, other.ID}] {
				continue
			}
			seeded[[2]uint64{actor.ID, other.ID}] = true

			likeType := LikeTypeLike
			if r.Intn(100) >= 70 {
				likeType = LikeTypeDislike
			}

			mutual := counter%3 == 0 && !seeded[[2]uint64{other.ID, actor.ID}]
			if mutual {
				likeType = LikeTypeLike
				seeded[[2]uint64{other.ID, actor.ID}] = true
			}

			like := Like{LikerID: actor.ID, LikedID: other.ID, LikeType: likeType, Active: true}
			if err := db.Create(&like).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}

			if mutual {
				recip := Like{LikerID: other.ID, LikedID: actor.ID, LikeType: LikeTypeLike, Active: true}
				if err := db.Create(&recip).Error; err != nil {
					return fmt.Errorf("failed to seed reciprocal like: %w", err)
				}

				u1, u2 := actor.ID, other.ID
				if u1 > u2 {
					u1, u2 = u2, u1
				}
				var match Match
				err := db.Where("user1_id = ? AND user2_id = ?", u1, u2).First(&match).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					match = Match{User1ID: u1, User2ID: u2, Active: true, MatchedAt: time.Now()}
					if err := db.Create(&match).Error; err != nil {
						return fmt.Errorf("failed to seed match: %w", err)
					}
				} else if err != nil {
					return err
				}
				if err := db.Model(&Like{}).
					Where("id IN ?", []uint64{like.ID, recip.ID}).
					Update("match_id", match.ID).Error; err != nil {
					return err
				}
			}

			counter++
		}
	}

	log.Println("Seeded likes and matches.")
	return nil
}
