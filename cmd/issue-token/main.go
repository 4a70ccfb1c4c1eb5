package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"seatshare/internal/config"
	"seatshare/internal/models"
	"seatshare/internal/repositories/mongodb"
	"seatshare/internal/utils"
	"seatshare/pkg/database"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// issue-token mints a bearer token signed with the server's JWT_SECRET and,
// with -register, stores the user in MongoDB so bookings can show its name
// and notifications can reach it.
func main() {
	userID := flag.String("user-id", "", "user id (24 hex chars); a new id is generated when empty")
	role := flag.String("role", string(models.UserRoleRider), "rider, driver or admin")
	email := flag.String("email", "", "email address")
	name := flag.String("name", "", "display name (with -register)")
	phone := flag.String("phone", "", "phone number (with -register)")
	register := flag.Bool("register", false, "upsert the user into MongoDB")
	ttl := flag.Duration("ttl", 0, "token lifetime (default JWT_ACCESS_TOKEN_TTL)")
	flag.Parse()

	if *userID == "" {
		*userID = primitive.NewObjectID().Hex()
	}
	id, err := primitive.ObjectIDFromHex(*userID)
	if err != nil {
		fail("-user-id must be a 24 character hex id")
	}

	switch models.UserRole(*role) {
	case models.UserRoleRider, models.UserRoleDriver, models.UserRoleAdmin:
	default:
		fail(fmt.Sprintf("unknown role %q", *role))
	}

	if *email != "" && !utils.IsValidEmail(*email) {
		fail(fmt.Sprintf("invalid email %q", *email))
	}

	cfg, err := config.Load()
	if err != nil {
		fail(fmt.Sprintf("load config: %v", err))
	}

	if *register {
		user := &models.User{
			ID:    id,
			Name:  *name,
			Email: *email,
			Phone: *phone,
			Role:  models.UserRole(*role),
		}
		if err := registerUser(cfg, user); err != nil {
			fail(fmt.Sprintf("register user: %v", err))
		}
		fmt.Fprintf(os.Stderr, "registered %s in %s\n", *userID, cfg.Database.Database)
	}

	lifetime := *ttl
	if lifetime <= 0 {
		lifetime = cfg.Security.JWTAccessTokenTTL
	}

	token, err := utils.GenerateToken(*userID, *role, *email, cfg.Security.JWTSecret, lifetime)
	if err != nil {
		fail(fmt.Sprintf("sign token: %v", err))
	}

	fmt.Fprintf(os.Stderr, "user %s (%s), valid for %s\n", *userID, *role, lifetime)
	fmt.Println(token)
}

func registerUser(cfg *config.Config, user *models.User) error {
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    1,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return mongodb.NewUserRepository(db.Database).Upsert(ctx, user)
}

func fail(message string) {
	fmt.Fprintln(os.Stderr, "Error: "+message)
	fmt.Fprintln(os.Stderr, "Usage: go run ./cmd/issue-token -role=driver [-user-id=<hex>] [-register -name=<name> -phone=<phone> -email=<email>]")
	os.Exit(1)
}
