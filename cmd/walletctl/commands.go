package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/AlexZinkM/lumen-wallet/internal/auth"
	"github.com/AlexZinkM/lumen-wallet/internal/config"
	"github.com/AlexZinkM/lumen-wallet/internal/crypto"
	"github.com/AlexZinkM/lumen-wallet/internal/model"
	"github.com/AlexZinkM/lumen-wallet/internal/storage/sqlite"

	"github.com/spf13/cobra"
)

type app struct {
	dbPath string
	prompt func(prompt string) ([]byte, error)
	out    io.Writer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "walletctl",
		Short:        "Manage lumen-wallet users",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db") {
				return nil
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.dbPath = cfg.DBPath
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (default: DB_PATH)")

	root.AddCommand(
		&cobra.Command{
			Use:   "adduser <username>",
			Short: "Create a login user (password is prompted)",
			Args:  cobra.ExactArgs(1),
			RunE:  a.addUser,
		},
		&cobra.Command{
			Use:   "deluser <username>",
			Short: "Delete a user together with their wallet",
			Args:  cobra.ExactArgs(1),
			RunE:  a.delUser,
		},
		&cobra.Command{
			Use:   "verify <username>",
			Short: "Check that a transaction password unlocks the user's wallet",
			Args:  cobra.ExactArgs(1),
			RunE:  a.verify,
		},
	)
	return root
}

func (a *app) openDB(ctx context.Context) (*sqlite.DB, error) {
	db, err := sqlite.NewDB(ctx, a.dbPath)
	if err != nil {
		return nil, err
	}
	if err := sqlite.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func (a *app) addUser(cmd *cobra.Command, args []string) error {
	username := args[0]

	password, err := a.prompt("Login password: ")
	if err != nil {
		return err
	}
	defer clear(password) // Always clear password from memory

	confirm, err := a.prompt("Repeat password: ")
	if err != nil {
		return err
	}
	defer clear(confirm)

	if !bytes.Equal(password, confirm) {
		return errors.New("passwords do not match")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	db, err := a.openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := sqlite.NewUserRepo(db).Create(cmd.Context(), username, hash)
	if errors.Is(err, model.ErrUserExists) {
		return fmt.Errorf("user %q already exists", username)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "created user %s (id %d)\n", user.Username, user.ID)
	return nil
}

func (a *app) delUser(cmd *cobra.Command, args []string) error {
	db, err := a.openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := sqlite.NewUserRepo(db).Delete(cmd.Context(), args[0]); err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return fmt.Errorf("user %q not found", args[0])
		}
		return err
	}

	fmt.Fprintf(a.out, "deleted user %s and their wallet\n", args[0])
	return nil
}

func (a *app) verify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := sqlite.NewUserRepo(db).GetByUsername(ctx, args[0])
	if err != nil {
		return fmt.Errorf("user %q: %w", args[0], err)
	}

	vault, err := sqlite.NewWalletRepo(db).Vault(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("user %q: %w", args[0], err)
	}

	password, err := a.prompt("Transaction password: ")
	if err != nil {
		return err
	}
	defer clear(password) // Always clear password from memory

	key, err := vault.Open(password)
	if errors.Is(err, crypto.ErrAuthentication) {
		return errors.New("transaction password does not unlock the wallet")
	}
	if err != nil {
		return err
	}
	key.Close()

	fmt.Fprintf(a.out, "ok: transaction password unlocks wallet %s\n", vault.PublicKey())
	return nil
}
