package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"syscall"

	"platoon-pulse/internal/bootstrap"
	"platoon-pulse/internal/user"

	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword

	errHelp = errors.New("help provided")
)

type accountCreator interface {
	CreateAdmin(ctx context.Context, req user.CreateAdminRequest) (user.UserResponse, error)
	ForceResetPassword(ctx context.Context, id, newPassword string) error
}

type emailLookup interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

type commandLine struct {
	users   accountCreator
	lookup  emailLookup
	migrate func(ctx context.Context) error
	audit   bootstrap.AuditLogger
	logger  *zap.Logger
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate                                   - create tables and seed role permissions")
	fmt.Println("  create-admin -name NAME -email EMAIL      - create an ADMIN account, password prompted")
	fmt.Println("  reset-password -email EMAIL               - set a new password, prompted")
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createCmd := flag.NewFlagSet("create-admin", flag.ContinueOnError)
	createName := createCmd.String("name", "", "Display name of the administrator.")
	createEmail := createCmd.String("email", "", "Login email of the administrator.")

	resetCmd := flag.NewFlagSet("reset-password", flag.ContinueOnError)
	resetEmail := resetCmd.String("email", "", "Login email of the account.")

	switch args[1] {
	case "migrate":
		if err := cli.migrate(ctx); err != nil {
			return err
		}
		cli.logger.Info("schema migrated")
		return nil

	case "create-admin":
		if err := createCmd.Parse(args[2:]); err != nil {
			return err
		}
		if strings.TrimSpace(*createName) == "" || strings.TrimSpace(*createEmail) == "" {
			createCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		resp, err := cli.users.CreateAdmin(ctx, user.CreateAdminRequest{
			Name:     *createName,
			Email:    *createEmail,
			Password: pwd,
		})
		if err != nil {
			return err
		}
		cli.logger.Info("admin created", zap.String("user_id", resp.ID), zap.String("email", resp.Email))
		cli.audit.Log(ctx, bootstrap.AuditLog{
			Action:  "ADMIN_CREATED",
			Actor:   "cli",
			Message: "Administrator account created",
			Meta:    map[string]any{"user_id": resp.ID},
		})
		return nil

	case "reset-password":
		if err := resetCmd.Parse(args[2:]); err != nil {
			return err
		}
		if strings.TrimSpace(*resetEmail) == "" {
			resetCmd.Usage()
			return errHelp
		}
		u, err := cli.lookup.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(*resetEmail)))
		if err != nil {
			return fmt.Errorf("find %s: %w", *resetEmail, err)
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetCmd.Usage()
			return errHelp
		}
		if err := cli.users.ForceResetPassword(ctx, u.ID.String(), pwd); err != nil {
			return err
		}
		cli.logger.Info("password reset", zap.String("user_id", u.ID.String()))
		cli.audit.Log(ctx, bootstrap.AuditLog{
			Action:  "PASSWORD_RESET",
			Actor:   "cli",
			Message: "Password reset from the admin CLI",
			Meta:    map[string]any{"user_id": u.ID.String()},
		})
		return nil

	default:
		cli.printUsage()
		return errHelp
	}
}
