// cmd/bmarketctl/main.go
//
// bmarketctl is the operator CLI: seed demo accounts, export the user
// collection to JSON, import a dump back. Import and export require
// DEV_TOOLS=true.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/quangvu/bmarket/internal/config"
	"github.com/quangvu/bmarket/internal/storage"
	"github.com/quangvu/bmarket/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd := os.Args[1]
	args := os.Args[2:]

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	s, closeKV, err := openStore(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store")
	}
	defer closeKV()

	switch cmd {
	case "seed":
		err = runSeed(s, log)
	case "export":
		err = runExport(s, args)
	case "import":
		err = runImport(s, log, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.WithError(err).Fatal(cmd + " failed")
	}
}

func openStore(cfg *config.Config, log *logrus.Logger) (*store.Store, func(), error) {
	kv, err := storage.OpenSQLite(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	gw := storage.NewGateway(kv, cfg.Storage.SchemaPrefix, log)
	s := store.New(gw, cfg, store.WithLogger(log), store.WithoutLatency())
	return s, func() { kv.Close() }, nil
}

func runSeed(s *store.Store, log *logrus.Logger) error {
	if err := s.Seed(); err != nil {
		return err
	}
	log.Info("demo accounts seeded")
	return nil
}

func runExport(s *store.Store, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "write to file instead of stdout")
	fs.Parse(args)

	data, err := s.ExportUsers()
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(*out, data, 0o644)
}

func runImport(s *store.Store, log *logrus.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	in := fs.String("in", "", "JSON user dump to merge (required)")
	fs.Parse(args)

	if *in == "" {
		return fmt.Errorf("import requires -in <file>")
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	count, err := s.ImportUsers(data)
	if err != nil {
		return err
	}
	log.WithField("users", count).Info("import complete")
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: bmarketctl <command> [flags]

commands:
  seed              create the demo admin/seller/user accounts
  export [-out f]   dump the user collection as JSON
  import -in f      merge a JSON user dump into storage`)
}
