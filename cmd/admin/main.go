// Command admin manages admin accounts directly against the database.
//
//	admin create -username alice -password s3cret
//	admin list
//	admin promote -username bob
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vishnupprajapat/nextfast/internal/config"
	"github.com/vishnupprajapat/nextfast/internal/db"
	"github.com/vishnupprajapat/nextfast/internal/repository/postgres"
	authUsecase "github.com/vishnupprajapat/nextfast/internal/service/auth"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const usage = "expected 'create', 'list' or 'promote' subcommand"

func main() {
	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	createUsername := createCmd.String("username", "", "Username for the new admin")
	createPassword := createCmd.String("password", "", "Password for the new admin")

	listCmd := flag.NewFlagSet("list", flag.ExitOnError)

	promoteCmd := flag.NewFlagSet("promote", flag.ExitOnError)
	promoteUsername := promoteCmd.String("username", "", "Existing storefront user to promote")

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var run func(context.Context, *authUsecase.AuthService) error

	switch os.Args[1] {
	case "create":
		createCmd.Parse(os.Args[2:])
		if *createUsername == "" || *createPassword == "" {
			fmt.Println("username and password are required")
			createCmd.PrintDefaults()
			os.Exit(1)
		}
		run = func(ctx context.Context, svc *authUsecase.AuthService) error {
			a, created, err := svc.CreateAdmin(ctx, *createUsername, *createPassword)
			if err != nil {
				return err
			}
			if !created {
				fmt.Printf("Admin '%s' already exists (id %d).\n", a.Username, a.ID)
				return nil
			}
			fmt.Printf("Admin '%s' created successfully (id %d).\n", a.Username, a.ID)
			return nil
		}
	case "list":
		listCmd.Parse(os.Args[2:])
		run = func(ctx context.Context, svc *authUsecase.AuthService) error {
			admins, err := svc.ListAdmins(ctx)
			if err != nil {
				return err
			}
			if len(admins) == 0 {
				fmt.Println("No admins.")
				return nil
			}
			for _, a := range admins {
				fmt.Printf("%d\t%s\t%s\n", a.ID, a.Username, a.CreatedAt.Format(time.RFC3339))
			}
			return nil
		}
	case "promote":
		promoteCmd.Parse(os.Args[2:])
		if *promoteUsername == "" {
			fmt.Println("username is required")
			promoteCmd.PrintDefaults()
			os.Exit(1)
		}
		run = func(ctx context.Context, svc *authUsecase.AuthService) error {
			a, created, err := svc.PromoteUser(ctx, *promoteUsername)
			if err != nil {
				return err
			}
			if !created {
				fmt.Printf("'%s' is already an admin.\n", a.Username)
				return nil
			}
			fmt.Printf("User '%s' promoted to admin (id %d).\n", a.Username, a.ID)
			return nil
		}
	default:
		fmt.Println(usage)
		os.Exit(1)
	}

	if err := withService(logger, run); err != nil {
		logger.Error("admin command failed", zap.String("command", os.Args[1]), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// withService connects to the database and runs fn with an auth service
// that can manage accounts. It never issues sessions, so no signing key is
// needed.
func withService(logger *zap.Logger, fn func(context.Context, *authUsecase.AuthService) error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.Load()
	pool, err := db.ConnectDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	svc := authUsecase.NewAuthService(
		postgres.NewAdminRepository(pool),
		postgres.NewUserRepository(pool),
		nil,
		logger,
	)

	return fn(ctx, svc)
}
