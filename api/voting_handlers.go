package api

import (
	"context"
	"net/http"

	"contract-frontend/service"
)

func (s *Server) handleVotingPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notices := s.voting.TakeNotices()
	view := s.voting.View()
	view.Notices = notices
	s.render(w, "voting.html", view)
}

func (s *Server) handleVotingState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.voting.View())
}

func (s *Server) handleVotingConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_ = s.voting.Connect(r.Context())
	redirect(w, r, "/voting")
}

func (s *Server) handleVotingRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.FormValue("name")
	s.queueVoting(w, r, "registerCandidate", func(ctx context.Context) error {
		return s.voting.RegisterCandidate(ctx, name)
	})
}

func (s *Server) handleVotingVote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	index, err := service.ParseIndex(r.FormValue("index"))
	if err != nil {
		s.voting.Alert(err)
		redirect(w, r, "/voting")
		return
	}
	s.queueVoting(w, r, "vote", func(ctx context.Context) error {
		return s.voting.Vote(ctx, index)
	})
}

func (s *Server) handleVotingReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	hours, err := service.ParseHours(r.FormValue("hours"))
	if err != nil {
		s.voting.Alert(err)
		redirect(w, r, "/voting")
		return
	}
	s.queueVoting(w, r, "reset", func(ctx context.Context) error {
		return s.voting.Reset(ctx, hours)
	})
}

// queueVoting hands a write to the voting queue. The page shows as loading from here until the
// write has finished.
func (s *Server) queueVoting(w http.ResponseWriter, r *http.Request, name string, run func(ctx context.Context) error) {
	done := s.voting.Queued()
	err := s.votingQueue.QueueNoWait(name, func(ctx context.Context) error {
		defer done()
		return run(ctx)
	})
	if err != nil {
		done()
		s.voting.Alert(err)
	}
	redirect(w, r, "/voting")
}
