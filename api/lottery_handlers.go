package api

import (
	"context"
	"net/http"
)

func (s *Server) handleLotteryPage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	notices := s.lottery.TakeNotices()
	view := s.lottery.View()
	view.Notices = notices
	s.render(w, "lottery.html", view)
}

func (s *Server) handleLotteryState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, s.lottery.View())
}

func (s *Server) handleLotteryConnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	// failures are already on the page as notices
	_ = s.lottery.Connect(r.Context())
	redirect(w, r, "/")
}

func (s *Server) handleLotteryBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_ = s.lottery.RefreshBalance(r.Context())
	redirect(w, r, "/")
}

func (s *Server) handleLotteryEnter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	confirmed := r.FormValue("confirmed") == "true"
	done := s.lottery.Queued()
	err := s.lotteryQueue.QueueNoWait("enter", func(ctx context.Context) error {
		defer done()
		return s.lottery.Enter(ctx, confirmed)
	})
	if err != nil {
		done()
		s.lottery.Alert(err)
	}
	redirect(w, r, "/")
}
