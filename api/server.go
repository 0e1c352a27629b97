// File: api/server.go
package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"contract-frontend/service"
)

//go:embed templates/*.html
var templateFS embed.FS

// Status describes what the server is connected to.
type Status struct {
	ChainID string       `json:"chain_id"`
	RPCURL  string       `json:"rpc_url"`
	Wallet  string       `json:"wallet"`
	Lottery ContractInfo `json:"lottery"`
	Voting  ContractInfo `json:"voting"`
}

type ContractInfo struct {
	Address        string `json:"address"`
	Contract       string `json:"contract"`
	ABIFingerprint string `json:"abi_fingerprint"`
}

type Config struct {
	Port         int
	CORSOrigins  []string
	QueueSize    int
	PollInterval time.Duration
}

type Server struct {
	config    Config
	lottery   *service.LotteryService
	voting    *service.VotingService
	metrics   *service.MetricsCollector
	poller    *service.Poller
	status    Status
	templates *template.Template
	logger    log.Logger

	// one queue per page, so a ballot transaction never holds up a lottery entry
	lotteryQueue *service.ActionQueue
	votingQueue  *service.ActionQueue
}

func NewServer(config Config, lottery *service.LotteryService, voting *service.VotingService, metrics *service.MetricsCollector, status Status) (*Server, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}
	if metrics == nil {
		metrics = service.NewMetricsCollector()
	}

	return &Server{
		config:       config,
		lottery:      lottery,
		voting:       voting,
		metrics:      metrics,
		poller:       service.NewPoller(voting, config.PollInterval),
		status:       status,
		templates:    templates,
		logger:       log.New("module", "api"),
		lotteryQueue: service.NewActionQueue(config.QueueSize),
		votingQueue:  service.NewActionQueue(config.QueueSize),
	}, nil
}

// Handler returns the routes wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("/", s.handleLotteryPage)
	mux.HandleFunc("/voting", s.handleVotingPage)

	// Lottery actions
	mux.HandleFunc("/connect", s.handleLotteryConnect)
	mux.HandleFunc("/lottery/balance", s.handleLotteryBalance)
	mux.HandleFunc("/lottery/enter", s.handleLotteryEnter)

	// Voting actions
	mux.HandleFunc("/voting/connect", s.handleVotingConnect)
	mux.HandleFunc("/voting/register", s.handleVotingRegister)
	mux.HandleFunc("/voting/vote", s.handleVotingVote)
	mux.HandleFunc("/voting/reset", s.handleVotingReset)

	// JSON
	mux.HandleFunc("/api/lottery", s.handleLotteryState)
	mux.HandleFunc("/api/voting", s.handleVotingState)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/metrics", s.handleMetrics)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return cors.New(cors.Options{
		AllowedOrigins: s.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(mux)
}

// Start serves until ctx is cancelled, then drains the action queue and stops polling.
func (s *Server) Start(ctx context.Context) error {
	s.startWorkers(ctx)
	defer s.stopWorkers()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverChan := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "port", s.config.Port)
		serverChan <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverChan:
		return errors.Wrap(err, "server error")
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		s.logger.Info("Server shutdown completed")
		return nil
	}
}

func (s *Server) startWorkers(ctx context.Context) {
	s.lotteryQueue.Start(ctx)
	s.votingQueue.Start(ctx)
	s.poller.Start(ctx)
}

func (s *Server) stopWorkers() {
	s.poller.Stop()
	s.votingQueue.Stop()
	s.lotteryQueue.Stop()
}

func (s *Server) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("Failed to render page", "page", name, "err", err)
	}
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.status)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.metrics.GetMetrics())
}
