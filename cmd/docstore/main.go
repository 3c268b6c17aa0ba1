package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/docstore"
	"github.com/suparena/docstore/store"
	"github.com/suparena/docstore/store/ddb"
	"github.com/suparena/docstore/store/memstore"
)

var (
	versionFlag = flag.Bool("version", false, "Show version information")
	vFlag       = flag.Bool("v", false, "Show version information (short)")
	configFlag  = flag.String("config", "", "Path to a YAML config file")
	groupFlag   = flag.String("group", "", "Collection to operate on")
)

// config selects the backend and its connection settings.
type config struct {
	Backend string `yaml:"backend"` // "dynamodb" or "memory"
	Region  string `yaml:"region"`
	Table   string `yaml:"table"`
}

func loadConfig(path string) (*config, error) {
	cfg := &config{Backend: "memory"}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func openRegistry(cfg *config) (store.Registry, error) {
	switch cfg.Backend {
	case "memory":
		return memstore.New(), nil
	case "dynamodb":
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found, proceeding with environment variables")
		}
		return ddb.New(
			os.Getenv("AWS_ACCESS_KEY"),
			os.Getenv("AWS_SECRET_KEY"),
			cfg.Region,
			cfg.Table,
		)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: docstore [flags] <command> [args]

Commands:
  groups              List collections
  keys                List keys in the collection (-group)
  count               Count records in the collection (-group)
  get <key>...        Print records by key
  set <key> <text>    Write a record
  delete <key>...     Remove records

Flags:
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *versionFlag || *vFlag {
		info := docstore.GetVersionInfo()
		fmt.Printf("docstore version %s\n", info.Version)
		fmt.Printf("Git commit: %s\n", info.GitCommit)
		fmt.Printf("Build date: %s\n", info.BuildDate)
		fmt.Printf("Go version: %s\n", info.GoVersion)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		log.Fatal(err)
	}
	registry, err := openRegistry(cfg)
	if err != nil {
		log.Fatal(err)
	}

	client := docstore.NewClient(registry)
	ctx := context.Background()

	if err := run(ctx, client, flag.Arg(0), flag.Args()[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, client *docstore.Client, command string, args []string) error {
	if command == "groups" {
		names, err := client.Names(ctx)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	if *groupFlag == "" {
		return fmt.Errorf("command %q needs -group", command)
	}
	coll, err := client.Collection(ctx, *groupFlag)
	if err != nil {
		return err
	}

	switch command {
	case "keys":
		keys, err := coll.Keys(ctx)
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil

	case "count":
		n, err := coll.Len(ctx)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil

	case "get":
		if len(args) == 0 {
			return fmt.Errorf("get needs at least one key")
		}
		res, err := coll.GetBatch(ctx, args)
		if err != nil {
			return err
		}
		for i := 0; i < res.Len(); i++ {
			rec, err := res.RecordAt(i)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", rec.Key, rec.Content)
		}
		return nil

	case "set":
		if len(args) != 2 {
			return fmt.Errorf("set needs a key and a value")
		}
		return coll.Set(ctx, args[0], args[1])

	case "delete":
		if len(args) == 0 {
			return fmt.Errorf("delete needs at least one key")
		}
		return coll.Delete(ctx, args...)

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
