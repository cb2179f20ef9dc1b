package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/dappbridge/walletd/params"
	"github.com/dappbridge/walletd/provider"
	"github.com/dappbridge/walletd/provider/commands"
	"github.com/dappbridge/walletd/rpc"
	"github.com/dappbridge/walletd/rpc/network"
	walletsignal "github.com/dappbridge/walletd/signal"
	"github.com/dappbridge/walletd/sqlite"
)

const (
	configFlag      = "config"
	dataDirFlag     = "datadir"
	listenFlag      = "listen"
	upstreamURLFlag = "upstream-url"
	dbKeyFlag       = "db-key"
)

func main() {
	app := &cli.App{
		Name:  "walletd",
		Usage: "Wallet provider daemon exposing the wallet JSON-RPC surface to dApps",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configFlag,
				Usage: "Path to a node config JSON file",
			},
			&cli.StringFlag{
				Name:  dataDirFlag,
				Usage: "Data directory for the provider database",
				Value: defaultDataDir(),
			},
			&cli.StringFlag{
				Name:  listenFlag,
				Usage: "host:port for the provider HTTP endpoint",
			},
			&cli.StringFlag{
				Name:  upstreamURLFlag,
				Usage: "Upstream node RPC URL; enables proxying of unregistered methods",
			},
			&cli.StringFlag{
				Name:  dbKeyFlag,
				Usage: "Encryption key for the provider database",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cCtx *cli.Context) (*params.NodeConfig, error) {
	var config *params.NodeConfig
	var err error

	if path := cCtx.String(configFlag); path != "" {
		config, err = params.LoadNodeConfigFromFile(path)
		if err != nil {
			return nil, err
		}
	} else {
		config = params.NewNodeConfig(cCtx.String(dataDirFlag))
	}

	if listen := cCtx.String(listenFlag); listen != "" {
		config.ListenAddr = listen
	}
	if url := cCtx.String(upstreamURLFlag); url != "" {
		config.UpstreamConfig = params.UpstreamRPCConfig{Enabled: true, URL: url}
	}
	if key := cCtx.String(dbKeyFlag); key != "" {
		config.KeyStoreKey = key
	}

	return config, config.Validate()
}

func run(cCtx *cli.Context) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	config, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(config.DataDir, 0o700); err != nil {
		return err
	}

	db, err := sqlite.OpenDB(filepath.Join(config.DataDir, "walletd.db"), config.KeyStoreKey)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	nm := network.NewManager(db)
	if err := nm.Init(config.Networks); err != nil {
		return err
	}

	// Without an upstream there is nothing to proxy to; unregistered methods
	// then fail with the unsupported-method code.
	var proxy commands.RPCClientInterface
	if config.UpstreamConfig.Enabled {
		rpcClient, err := rpc.NewClient(config.UpstreamConfig, nm, logger)
		if err != nil {
			return err
		}
		proxy = rpcClient
	}

	walletsignal.SetLogger(logger)

	service := provider.NewService(db, proxy, nm, logger)
	api := provider.NewAPI(service)
	defer api.Stop()

	hub := NewSignalHub(logger)
	defer hub.Close()
	walletsignal.SetHandler(hub.Broadcast)
	defer walletsignal.ResetHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("/", handleRPC(api, logger))
	mux.HandleFunc("/signals", hub.ServeWS)
	mux.HandleFunc("/approvals", handleApproval(api))
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              config.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("provider endpoint listening",
			zap.String("addr", config.ListenAddr),
			zap.Bool("upstream", config.UpstreamConfig.Enabled))
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// handleRPC serves one JSON-RPC exchange per POST body.
func handleRPC(api *provider.API, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusBadRequest)
			return
		}

		body = attachOrigin(body, r.Header.Get("Origin"))
		response := api.CallRPC(r.Context(), string(body))

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(response)); err != nil {
			logger.Warn("failed to write response", zap.Error(err))
		}
	}
}

// attachOrigin fills in the dApp origin from the HTTP Origin header when the
// request body does not carry one. Browser dApps identify themselves through
// the transport; the commands only see the body.
func attachOrigin(body []byte, origin string) []byte {
	if origin == "" {
		return body
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return body
	}
	if existing, ok := fields["origin"]; ok && string(existing) != `""` {
		return body
	}

	encoded, err := json.Marshal(origin)
	if err != nil {
		return body
	}
	fields["origin"] = encoded

	patched, err := json.Marshal(fields)
	if err != nil {
		return body
	}
	return patched
}

type approvalRequest struct {
	commands.SessionApprovalArgs
	Approved bool `json:"approved"`
}

// handleApproval is the wallet UI side of the eth_requestAccounts flow.
func handleApproval(api *provider.API) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var request approvalRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}

		var err error
		if request.Approved {
			err = api.SessionApproved(request.SessionApprovalArgs)
		} else {
			err = api.SessionRejected(commands.RejectedArgs{RequestID: request.RequestID})
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".walletd"
	}
	return filepath.Join(home, ".walletd")
}
