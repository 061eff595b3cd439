// Copyright 2025 Anapaya Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// notary-admin administrates the trust database of the notary service
// directly: blacklist maintenance and trusted cache inspection.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/scionproto/notary/notary/config"
	"github.com/scionproto/notary/pkg/private/serrors"
	libconfig "github.com/scionproto/notary/private/config"
	"github.com/scionproto/notary/private/storage"
)

func main() {
	cmd := &cobra.Command{
		Use:           "notary-admin",
		Short:         "Certificate Trust Notary administration",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	var cfgFile string
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Notary service configuration file (required)")
	if err := cmd.MarkPersistentFlagRequired("config"); err != nil {
		panic(err)
	}
	cmd.AddCommand(
		newBlacklistCmd(&cfgFile),
		newTrustedCmd(&cfgFile),
	)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newBlacklistCmd(cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blacklist",
		Short: "Maintain the url blacklist",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <url>",
			Short: "Deny trust for a url",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTrustDB(*cfgFile, func(db storage.TrustDB) error {
					return db.InsertBlacklist(cmd.Context(), args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "remove <url>",
			Short: "Lift the trust denial for a url",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTrustDB(*cfgFile, func(db storage.TrustDB) error {
					return db.RemoveBlacklist(cmd.Context(), args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all blacklisted urls",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withTrustDB(*cfgFile, func(db storage.TrustDB) error {
					urls, err := db.Blacklist(cmd.Context())
					if err != nil {
						return err
					}
					table := newTable(cmd, []string{"URL"})
					for _, url := range urls {
						table.Append([]string{url})
					}
					table.Render()
					return nil
				})
			},
		},
	)
	return cmd
}

func newTrustedCmd(cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "trusted <url>",
		Short: "List the cached trusted fingerprints of a url",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*cfgFile)
			if err != nil {
				return err
			}
			db, err := storage.NewTrustStorage(cfg.TrustDB)
			if err != nil {
				return serrors.Wrap("opening trust database", err)
			}
			defer db.Close()
			records, err := db.TrustedRecords(cmd.Context(), args[0],
				time.Now().Add(-cfg.Notary.Retention.Duration))
			if err != nil {
				return err
			}
			table := newTable(cmd, []string{"FINGERPRINT", "RECORDED"})
			for _, r := range records {
				table.Append([]string{
					r.Fingerprint,
					r.RecordedAt.UTC().Format(time.RFC3339),
				})
			}
			table.Render()
			return nil
		},
	}
}

func loadConfig(file string) (*config.Config, error) {
	var cfg config.Config
	if err := libconfig.LoadFile(file, &cfg); err != nil {
		return nil, serrors.Wrap("loading config from file", err, "file", file)
	}
	cfg.InitDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, serrors.Wrap("validating config", err, "file", file)
	}
	return &cfg, nil
}

func withTrustDB(cfgFile string, action func(storage.TrustDB) error) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return err
	}
	db, err := storage.NewTrustStorage(cfg.TrustDB)
	if err != nil {
		return serrors.Wrap("opening trust database", err)
	}
	defer db.Close()
	return action(db)
}

func newTable(cmd *cobra.Command, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeader(header)
	return table
}
