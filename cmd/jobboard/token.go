package main

import (
	"fmt"

	"github.com/jonathan/jobboard/internal/config"
	"github.com/jonathan/jobboard/internal/server"
	"github.com/jonathan/jobboard/internal/types"
	"github.com/spf13/cobra"
)

var tokenEmail string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint an applicant token for local testing",
	Long:  "Sign an applicant JWT for the given email with JWT_SECRET. Admin tokens are only issued by POST /admin/login.",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "Applicant email (required)")
	_ = tokenCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	login := types.LoginRequest{Email: tokenEmail, Password: "-"}
	login.Normalize()
	if err := login.Validate(); err != nil {
		return err
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	token, err := server.NewJWTService(jwtConfig).GenerateToken(types.Identity{Email: login.Email})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
