package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/config"
	"github.com/iMuhammadMustafa/Budgeteer-sub003/internal/util"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.Flags().String("subject", "", "caller name recorded as created_by")
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime (default jwt.expire_hours)")
}

var tokenCmd = &cobra.Command{
	Use:   "token TENANT_ID",
	Short: "Issue an API token for a tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		if ttl <= 0 {
			ttl = time.Duration(cfg.JWT.ExpireHours) * time.Hour
		}
		tok, err := util.GenerateToken(cfg.JWT.Secret, cfg.JWT.Issuer, args[0], subject, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}
