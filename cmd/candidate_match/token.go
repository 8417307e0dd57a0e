package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/candidate-match/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the disclosed stats endpoint",
	RunE:  runToken,
}

var (
	tokenSubject string
	tokenRole    string
)

func init() {
	tokenCmd.Flags().StringVarP(&tokenSubject, "subject", "s", "", "Token subject, e.g. an operator name (required)")
	tokenCmd.Flags().StringVar(&tokenRole, "role", server.RoleAdmin, "Token role")

	if err := tokenCmd.MarkFlagRequired("subject"); err != nil {
		panic(fmt.Sprintf("failed to mark subject flag as required: %v", err))
	}

	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	jwtCfg, err := appCfg.Auth.JWT()
	if err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(tokenSubject, tokenRole)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
