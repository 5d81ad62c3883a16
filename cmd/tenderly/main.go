package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/0xmhha/tenderly-go/client"
	"github.com/0xmhha/tenderly-go/internal/config"
	"github.com/0xmhha/tenderly-go/internal/logger"
	"github.com/0xmhha/tenderly-go/simulate"
	"github.com/0xmhha/tenderly-go/vnet"
)

var (
	// Version information (injected at build time)
	version = "dev"
	commit  = "none"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to configuration file (YAML)")
		showVersion = flag.Bool("version", false, "Show version information and exit")

		// simulate flags
		from      = flag.String("from", "", "Sender address")
		to        = flag.String("to", "", "Recipient address")
		input     = flag.String("input", "0x", "Calldata")
		networkID = flag.String("network", "1", "Network id to simulate against")
		valueWei  = flag.String("value", "", "Value in wei (decimal)")

		// vnet flags
		slug        = flag.String("slug", "", "VNet slug")
		displayName = flag.String("name", "", "VNet display name")
		forkNetwork = flag.Uint64("fork-network", 1, "Network id to fork")
		blockNumber = flag.Uint64("block", 0, "Block number to fork from (0 = latest)")
		vnetID      = flag.String("vnet", "", "VNet id")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("tenderly-go version %s (commit %s)\n", version, commit)
		return
	}

	command := flag.Arg(0)
	if command == "" {
		fmt.Fprintln(os.Stderr, "usage: tenderly [flags] <simulate|vnet-create|vnet-list|vnet-delete|vnet-fork>")
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	c, err := client.NewClient(&client.Config{
		Account:           cfg.API.Account,
		Project:           cfg.API.Project,
		AccessKey:         cfg.API.AccessKey,
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.API.Timeout,
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Logger:            logger.WithComponent(log, "client"),
	})
	if err != nil {
		log.Fatal("failed to create client", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command, c, runOptions{
		from:        *from,
		to:          *to,
		input:       *input,
		networkID:   *networkID,
		valueWei:    *valueWei,
		slug:        *slug,
		displayName: *displayName,
		forkNetwork: *forkNetwork,
		blockNumber: *blockNumber,
		vnetID:      *vnetID,
	}); err != nil {
		log.Fatal("command failed", zap.String("command", command), zap.Error(err))
	}
}

type runOptions struct {
	from        string
	to          string
	input       string
	networkID   string
	valueWei    string
	slug        string
	displayName string
	forkNetwork uint64
	blockNumber uint64
	vnetID      string
}

func run(ctx context.Context, command string, c *client.Client, opts runOptions) error {
	switch command {
	case "simulate":
		req := simulate.NewSimulationRequest(opts.from, opts.to, opts.input).
			WithNetworkID(opts.networkID)
		if opts.valueWei != "" {
			amount, ok := new(big.Int).SetString(opts.valueWei, 10)
			if !ok {
				return fmt.Errorf("invalid wei amount %q", opts.valueWei)
			}
			req.ValueWei(amount)
		}
		resp, err := simulate.NewAPI(c).Simulate(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(resp)

	case "vnet-create":
		req := vnet.NewCreateVNetRequest(opts.slug, opts.displayName, opts.forkNetwork)
		if opts.blockNumber > 0 {
			req.AtBlock(opts.blockNumber)
		}
		created, err := vnet.NewAPI(c).Create(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(created)

	case "vnet-list":
		vnets, err := vnet.NewAPI(c).List(ctx, vnet.NewListVNetsQuery().WithSlug(opts.slug))
		if err != nil {
			return err
		}
		return printJSON(vnets)

	case "vnet-delete":
		if opts.vnetID == "" {
			return fmt.Errorf("-vnet is required")
		}
		return vnet.NewAPI(c).Delete(ctx, opts.vnetID)

	case "vnet-fork":
		if opts.vnetID == "" {
			return fmt.Errorf("-vnet is required")
		}
		req := vnet.NewForkVNetRequest(opts.vnetID, opts.slug, opts.displayName)
		if opts.blockNumber > 0 {
			req.AtBlock(opts.blockNumber)
		}
		forked, err := vnet.NewAPI(c).Fork(ctx, req)
		if err != nil {
			return err
		}
		return printJSON(forked)

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
