package cmd

import (
	"fmt"

	"github.com/brk3/habiterm/internal/config"
	"github.com/brk3/habiterm/internal/server"
	"github.com/brk3/habiterm/internal/service"
	"github.com/brk3/habiterm/internal/storage"
	"github.com/brk3/habiterm/internal/storage/bolt"
	"github.com/brk3/habiterm/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startServer()
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func openStore(c config.StorageConfig) (storage.Store, error) {
	switch c.Driver {
	case config.DriverBolt:
		return bolt.Open(c.Path)
	case config.DriverSQLite:
		return sqlite.Open(c.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.Driver)
	}
}

func startServer() error {
	st, err := openStore(cfg.Storage)
	if err != nil {
		return err
	}
	defer st.Close()

	s := server.New(cfg, service.New(st))
	return s.ListenAndServe()
}
