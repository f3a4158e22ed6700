// Command createadmin seeds the initial administrator account into the
// users data file.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"timeclock.app/timeclock/core"
	"timeclock.app/timeclock/security"
	"timeclock.app/timeclock/store"
)

func main() {
	dataDir := flag.String("data", "data", "data directory")
	id := flag.String("id", "", "user id (defaults to a fresh uuid)")
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	firstName := flag.String("first", "System", "first name")
	lastName := flag.String("last", "Admin", "last name")
	email := flag.String("email", "admin@example.com", "email address")
	flag.Parse()

	if *password == "" {
		log.Fatal("-password is required")
	}
	if *id == "" {
		*id = uuid.NewString()
	}

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	userFile := store.NewUserFile(filepath.Join(*dataDir, store.UsersFileName))
	users, err := userFile.LoadAll()
	if err != nil {
		log.Fatal(err)
	}

	if _, exists := users[*username]; exists {
		log.Fatalf("user %q already exists, refusing to overwrite", *username)
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		log.Fatal(err)
	}

	users[*username] = store.User{
		ID:        *id,
		Username:  *username,
		Password:  hash,
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     *email,
		Role:      core.RoleAdmin,
	}

	if err := userFile.SaveAll(users); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("created admin %q (id %s)\n", *username, *id)
}
