package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/park285/gridchess/internal/board"
	"github.com/park285/gridchess/internal/fenio"
	"github.com/park285/gridchess/internal/msgcat"
	"github.com/park285/gridchess/internal/obslog"
	"github.com/park285/gridchess/internal/render"
	"github.com/park285/gridchess/internal/session"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Sessions is the subset of session.Manager the API needs.
type Sessions interface {
	Create(ctx context.Context, placement string) (*session.Session, error)
	Load(ctx context.Context, id string) (*session.Session, error)
	Move(ctx context.Context, id, input string) (*session.MoveOutcome, error)
}

type Server struct {
	sessions Sessions
	renderer render.BoardRenderer
	messages *msgcat.Catalog
	timeout  time.Duration
}

func NewServer(sessions Sessions, renderer render.BoardRenderer, messages *msgcat.Catalog) *Server {
	return &Server{sessions: sessions, renderer: renderer, messages: messages, timeout: 5 * time.Second}
}

// HTTPServer wraps Handler in a fasthttp server.
func (s *Server) HTTPServer() *fasthttp.Server {
	return &fasthttp.Server{
		Handler:      s.Handler,
		Name:         "gridchess",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

type createRequest struct {
	Placement string `json:"placement"`
}

type moveRequest struct {
	Move string `json:"move"`
}

type gameView struct {
	ID        string   `json:"id"`
	Status    string   `json:"status"`
	GameOver  bool     `json:"game_over"`
	Winner    string   `json:"winner,omitempty"`
	Placement string   `json:"placement"`
	Board     []string `json:"board"`
	LastMove  string   `json:"last_move,omitempty"`
}

type moveResponse struct {
	OK      bool     `json:"ok"`
	Reason  string   `json:"reason,omitempty"`
	Message string   `json:"message"`
	Game    gameView `json:"game"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler routes:
//
//	GET  /healthz
//	POST /games
//	GET  /games/{id}
//	POST /games/{id}/moves
//	GET  /games/{id}/board.png
func (s *Server) Handler(ctx *fasthttp.RequestCtx) {
	path := strings.Trim(string(ctx.Path()), "/")
	parts := strings.Split(path, "/")
	method := string(ctx.Method())

	switch {
	case path == "healthz" && method == fasthttp.MethodGet:
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	case path == "games" && method == fasthttp.MethodPost:
		s.handleCreate(ctx)
	case len(parts) == 2 && parts[0] == "games" && method == fasthttp.MethodGet:
		s.handleGet(ctx, parts[1])
	case len(parts) == 3 && parts[0] == "games" && parts[2] == "moves" && method == fasthttp.MethodPost:
		s.handleMove(ctx, parts[1])
	case len(parts) == 3 && parts[0] == "games" && parts[2] == "board.png" && method == fasthttp.MethodGet:
		s.handleBoardPNG(ctx, parts[1])
	default:
		writeJSON(ctx, fasthttp.StatusNotFound, errorResponse{Error: "no route for " + method + " /" + path})
	}
}

func (s *Server) reqContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Server) handleCreate(ctx *fasthttp.RequestCtx) {
	var req createRequest
	if body := ctx.PostBody(); len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeJSON(ctx, fasthttp.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}
	c, cancel := s.reqContext()
	defer cancel()
	sess, err := s.sessions.Create(c, req.Placement)
	if err != nil {
		s.writeSessionError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusCreated, viewOf(sess))
}

func (s *Server) handleGet(ctx *fasthttp.RequestCtx, id string) {
	c, cancel := s.reqContext()
	defer cancel()
	sess, err := s.sessions.Load(c, id)
	if err != nil {
		s.writeSessionError(ctx, err)
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, viewOf(sess))
}

func (s *Server) handleMove(ctx *fasthttp.RequestCtx, id string) {
	var req moveRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || strings.TrimSpace(req.Move) == "" {
		writeJSON(ctx, fasthttp.StatusBadRequest, errorResponse{Error: s.messages.Text("api.bad_request", nil, "bad request")})
		return
	}
	c, cancel := s.reqContext()
	defer cancel()
	out, err := s.sessions.Move(c, id, req.Move)
	if err != nil {
		if errors.Is(err, session.ErrFinished) && out != nil && out.Session != nil {
			msg := s.messages.Text("game.finished", map[string]string{"ID": out.Session.ID}, err.Error())
			writeJSON(ctx, fasthttp.StatusConflict, moveResponse{OK: false, Reason: "finished", Message: msg, Game: viewOf(out.Session)})
			return
		}
		s.writeSessionError(ctx, err)
		return
	}

	resp := moveResponse{OK: out.Applied(), Game: viewOf(out.Session)}
	if !out.Applied() {
		resp.Reason = board.Reason(out.Rejection)
		resp.Message = s.messages.MoveAdvice(out.Rejection)
	} else {
		resp.Message = s.messages.MoveSummary(out.Result)
		if out.Session.GameOver {
			resp.Message += "\n" + s.messages.Text("game.over", nil, "King captured! Game over.")
		}
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) handleBoardPNG(ctx *fasthttp.RequestCtx, id string) {
	c, cancel := s.reqContext()
	defer cancel()
	sess, err := s.sessions.Load(c, id)
	if err != nil {
		s.writeSessionError(ctx, err)
		return
	}
	grid, err := board.ParsePlacement(sess.Placement)
	if err != nil {
		writeJSON(ctx, fasthttp.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	opts := render.RenderOptions{
		Title: "game " + shortID(sess.ID),
		Flip:  strings.EqualFold(string(ctx.QueryArgs().Peek("side")), "black"),
	}
	if from, ferr := board.ParseSquare(sess.LastFrom); ferr == nil {
		if to, terr := board.ParseSquare(sess.LastTo); terr == nil {
			opts.Highlight = &render.MoveHighlight{From: fenio.Square(from), To: fenio.Square(to)}
		}
	}
	png, err := s.renderer.RenderPNG(c, fenio.ToBoard(grid), opts)
	if err != nil {
		obslog.L().Error("grid_render_error", zap.String("game_id", sess.ID), zap.Error(err))
		writeJSON(ctx, fasthttp.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("image/png")
	ctx.SetBody(png)
}

func (s *Server) writeSessionError(ctx *fasthttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeJSON(ctx, fasthttp.StatusNotFound, errorResponse{Error: s.messages.Text("api.not_found", nil, err.Error())})
	case errors.Is(err, session.ErrInvalidArgs):
		writeJSON(ctx, fasthttp.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, session.ErrConcurrentUpdate), errors.Is(err, session.ErrFinished):
		writeJSON(ctx, fasthttp.StatusConflict, errorResponse{Error: s.messages.Text("api.conflict", nil, err.Error())})
	default:
		obslog.L().Error("grid_api_error", zap.String("path", string(ctx.Path())), zap.Error(err))
		writeJSON(ctx, fasthttp.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func viewOf(s *session.Session) gameView {
	v := gameView{
		ID:        s.ID,
		Status:    string(s.Status),
		GameOver:  s.GameOver,
		Winner:    s.Winner,
		Placement: s.Placement,
	}
	if grid, err := board.ParsePlacement(s.Placement); err == nil {
		v.Board = grid.Rows()
	}
	if s.LastFrom != "" {
		v.LastMove = s.LastFrom + "," + s.LastTo
	}
	return v
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(raw)
}

func shortID(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 8 {
		return s
	}
	return s[:8]
}
