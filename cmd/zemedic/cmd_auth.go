package main

import (
	"fmt"
	"net/http"
	"os"

	"zemedic-service/pkg/client"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type credentialFlags struct {
	name     string
	email    string
	password string
}

func (f *credentialFlags) bind(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVar(&f.name, "name", "", "display name (required)")
		_ = cmd.MarkFlagRequired("name")
	}
	cmd.Flags().StringVar(&f.email, "email", "", "account email (required)")
	cmd.Flags().StringVar(&f.password, "password", "", "password (default: $ZEMEDIC_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
}

func (f *credentialFlags) resolvedPassword() (string, error) {
	if f.password != "" {
		return f.password, nil
	}
	if env := os.Getenv("ZEMEDIC_PASSWORD"); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("password required: pass --password or set ZEMEDIC_PASSWORD")
}

func newRegisterCmd(a *app) *cobra.Command {
	flags := &credentialFlags{}
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := flags.resolvedPassword()
			if err != nil {
				return err
			}
			session, err := a.newClient().Register(cmd.Context(), flags.name, flags.email, password)
			if err != nil {
				return err
			}
			return a.startSession(cmd, session)
		},
	}
	flags.bind(cmd, true)
	return cmd
}

func newLoginCmd(a *app) *cobra.Command {
	flags := &credentialFlags{}
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := flags.resolvedPassword()
			if err != nil {
				return err
			}
			session, err := a.newClient().Login(cmd.Context(), flags.email, password)
			if err != nil {
				return err
			}
			return a.startSession(cmd, session)
		},
	}
	flags.bind(cmd, false)
	return cmd
}

func (a *app) startSession(cmd *cobra.Command, session *client.Session) error {
	if err := a.store.SaveSession(session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	printLine(cmd.OutOrStdout(), fmt.Sprintf("Logged in as %s <%s>", session.Name, session.Email))
	return nil
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := a.store.Session()
			if session == nil {
				printLine(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			err := a.newClient().WithSession(session).Logout(cmd.Context())
			if err != nil && !client.IsStatus(err, http.StatusUnauthorized) {
				a.log.Warn("logout request failed, clearing local session anyway", zap.Error(err))
			}
			if err := a.store.ClearSession(); err != nil {
				return err
			}
			printLine(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update the profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			api := a.api()
			if cmd.Flags().Changed("name") {
				profile, err := api.UpdateProfile(cmd.Context(), name)
				if err != nil {
					return err
				}
				printProfile(cmd.OutOrStdout(), profile)
				return nil
			}
			profile, err := api.Profile(cmd.Context())
			if err != nil {
				return err
			}
			printProfile(cmd.OutOrStdout(), profile)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new display name")
	return cmd
}
