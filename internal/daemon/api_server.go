package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"freedify/internal/api"
	"freedify/internal/catalog"
	"freedify/internal/config"
	"freedify/internal/logging"
	"freedify/internal/media/ffprobe"
	"freedify/internal/services"
	"freedify/internal/services/listenbrainz"
	"freedify/internal/store"
	"freedify/internal/transcode"
)

type apiServer struct {
	bind   string
	token  string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, errors.New("api server requires config and daemon")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api bind address not configured")
	}

	srv := &apiServer{
		bind:   bind,
		token:  cfg.Paths.APIToken,
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", srv.handleStatus)
	mux.HandleFunc("GET /api/search", srv.handleSearch)
	mux.HandleFunc("GET /api/tracks/{id}", srv.handleTrack)
	mux.HandleFunc("GET /api/tracks/{id}/stream", srv.handleStream)
	mux.HandleFunc("GET /api/tracks/{id}/probe", srv.handleProbe)
	mux.HandleFunc("GET /api/albums/{id}", srv.handleAlbum)
	mux.HandleFunc("GET /api/artists/{id}", srv.handleArtist)
	mux.HandleFunc("GET /api/setlists", srv.handleSetlistSearch)
	mux.HandleFunc("GET /api/setlists/{id}", srv.handleSetlist)
	mux.HandleFunc("GET /api/recommendations", srv.handleRecommendations)
	mux.HandleFunc("GET /api/listens", srv.handleListens)
	mux.HandleFunc("POST /api/listens", srv.handleSubmitListen)
	mux.HandleFunc("POST /api/listens/now", srv.handlePlayingNow)
	mux.HandleFunc("POST /api/listenbrainz/token", srv.handleValidateToken)

	srv.server = &http.Server{
		Handler:           authMiddleware(srv.token, mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.daemon.Status(r.Context())
	deps := make([]api.DependencyStatus, len(status.Dependencies))
	for i, dep := range status.Dependencies {
		deps[i] = api.DependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Detail:      dep.Detail,
		}
	}
	s.writeJSON(w, http.StatusOK, api.StatusResponse{
		Running:      status.Running,
		PID:          status.PID,
		DatabasePath: status.DatabasePath,
		LockFilePath: status.LockFilePath,
		Dependencies: deps,
		Journal:      status.Journal,
		Cache:        status.Cache,
	})
}

func (s *apiServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := strings.TrimSpace(query.Get("q"))
	if q == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	kind, ok := catalog.ParseKind(query.Get("type"))
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown search type "+strconv.Quote(query.Get("type")))
		return
	}
	limit, _ := strconv.Atoi(query.Get("limit"))
	offset, _ := strconv.Atoi(query.Get("offset"))

	results, err := s.daemon.catalog.Search(r.Context(), q, kind, limit, offset)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SearchResponse{
		Query:    q,
		Kind:     string(kind),
		Tracks:   results.Tracks,
		Albums:   results.Albums,
		Artists:  results.Artists,
		Setlists: results.Setlists,
	})
}

func (s *apiServer) handleTrack(w http.ResponseWriter, r *http.Request) {
	track, err := s.daemon.catalog.Track(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.TrackResponse{Track: *track})
}

func (s *apiServer) handleAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := s.daemon.catalog.Album(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.AlbumResponse{Album: *album})
}

func (s *apiServer) handleArtist(w http.ResponseWriter, r *http.Request) {
	artist, err := s.daemon.catalog.Artist(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ArtistResponse{Artist: *artist})
}

func (s *apiServer) handleStream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	query := r.URL.Query()

	lossless := boolParam(query.Get("lossless"))
	source, err := s.daemon.catalog.StreamURL(r.Context(), id, lossless)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	// raw=1 or format=original hands the upstream URL straight to the
	// player, skipping ffmpeg.
	if boolParam(query.Get("raw")) || strings.EqualFold(query.Get("format"), "original") {
		http.Redirect(w, r, source, http.StatusFound)
		return
	}

	opts := transcode.Options{
		Format:      strings.TrimSpace(query.Get("format")),
		BitrateKbps: 0,
	}
	if opts.Format == "" {
		opts.Format = s.daemon.cfg.Transcode.DefaultFormat
	}
	if value := query.Get("bitrate"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid bitrate "+strconv.Quote(value))
			return
		}
		opts.BitrateKbps = parsed
	} else {
		opts.BitrateKbps = s.daemon.cfg.Transcode.DefaultBitrateKbps
	}
	if !transcode.SupportedFormat(opts.Format) {
		s.writeError(w, http.StatusBadRequest, "unsupported format "+strconv.Quote(opts.Format))
		return
	}
	// The bitrate must be checked before any audio headers are committed.
	if !transcode.ValidBitrate(opts.BitrateKbps) {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("bitrate %d out of range 32-512 kbps", opts.BitrateKbps))
		return
	}

	if s.daemon.streamer == nil {
		s.writeError(w, http.StatusServiceUnavailable, "transcoding is not configured")
		return
	}

	w.Header().Set("Content-Type", transcode.MimeType(opts.Format))
	cached, err := s.daemon.streamer.Stream(r.Context(), id, source, opts, w)
	if err != nil {
		// Headers are already gone once bytes flow; only log.
		s.logger.Warn("stream failed",
			logging.String(logging.FieldTrackID, id),
			logging.Error(err))
		return
	}
	s.logger.Debug("stream finished",
		logging.String(logging.FieldTrackID, id),
		logging.String("format", opts.Format),
		logging.Bool("cached", cached))
}

func (s *apiServer) handleProbe(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	lossless := boolParam(r.URL.Query().Get("lossless"))

	source, err := s.daemon.catalog.StreamURL(r.Context(), id, lossless)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	result, err := ffprobe.Inspect(r.Context(), s.daemon.cfg.FFprobeBinary(), source)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	response := api.ProbeResponse{
		TrackID:         id,
		Container:       result.Format.FormatName,
		Lossless:        result.IsLossless(),
		DurationSeconds: result.DurationSeconds(),
		SampleRateHz:    result.SampleRateHz(),
		BitRate:         result.BitRate(),
	}
	if stream, ok := result.FirstAudioStream(); ok {
		response.Codec = stream.CodecName
		response.Channels = stream.Channels
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *apiServer) handleSetlistSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := strings.TrimSpace(query.Get("q"))
	if q == "" {
		s.writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	page, _ := strconv.Atoi(query.Get("page"))

	setlists, err := s.daemon.catalog.SearchSetlists(r.Context(), q, page)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SetlistListResponse{Setlists: setlists})
}

func (s *apiServer) handleSetlist(w http.ResponseWriter, r *http.Request) {
	setlist, err := s.daemon.catalog.Setlist(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.SetlistResponse{Setlist: *setlist})
}

func (s *apiServer) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	if s.daemon.listens == nil {
		s.writeError(w, http.StatusServiceUnavailable, "listenbrainz is not configured")
		return
	}
	query := r.URL.Query()
	count, _ := strconv.Atoi(query.Get("count"))
	mbids, err := s.daemon.listens.Recommendations(r.Context(), query.Get("user"), count)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	var tracks []catalog.Track
	if s.daemon.lookuper != nil {
		tracks = listenbrainz.ResolveRecommendations(r.Context(), mbids, s.daemon.lookuper, s.logger)
	}
	s.writeJSON(w, http.StatusOK, api.RecommendationsResponse{Tracks: tracks})
}

func (s *apiServer) handleListens(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	count, _ := strconv.Atoi(query.Get("count"))

	journal, err := s.daemon.store.RecentScrobbles(r.Context(), count)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	response := api.ListensResponse{Journal: api.FromScrobbles(journal)}

	// The remote history is decoration; journal output stands on its own.
	if s.daemon.listens != nil {
		remote, err := s.daemon.listens.Listens(r.Context(), query.Get("user"), count)
		if err != nil {
			s.logger.Debug("remote listens unavailable", logging.Error(err))
		} else {
			response.Remote = remote
		}
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *apiServer) handleSubmitListen(w http.ResponseWriter, r *http.Request) {
	request, ok := s.decodeListen(w, r)
	if !ok {
		return
	}
	scrobble, err := s.daemon.store.Enqueue(r.Context(), store.Scrobble{
		TrackID:     request.TrackID,
		TrackName:   request.TrackName,
		ArtistName:  request.ArtistName,
		AlbumName:   request.AlbumName,
		DurationMS:  request.DurationMS,
		ISRC:        request.ISRC,
		TrackNumber: request.TrackNumber,
		ListenedAt:  request.ListenedAt,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusAccepted, api.ListenAck{ID: scrobble.ID, Status: string(scrobble.Status)})
}

func (s *apiServer) handlePlayingNow(w http.ResponseWriter, r *http.Request) {
	if s.daemon.listens == nil {
		s.writeError(w, http.StatusServiceUnavailable, "listenbrainz is not configured")
		return
	}
	request, ok := s.decodeListen(w, r)
	if !ok {
		return
	}
	err := s.daemon.listens.SubmitPlayingNow(r.Context(), listenbrainz.Submission{
		TrackName:   request.TrackName,
		ArtistName:  request.ArtistName,
		DurationMS:  request.DurationMS,
		ReleaseName: request.AlbumName,
		ISRC:        request.ISRC,
		TrackNumber: request.TrackNumber,
	})
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ListenAck{Status: "playing_now"})
}

func (s *apiServer) handleValidateToken(w http.ResponseWriter, r *http.Request) {
	if s.daemon.listens == nil {
		s.writeError(w, http.StatusServiceUnavailable, "listenbrainz is not configured")
		return
	}
	var request api.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.daemon.listens.ValidateToken(r.Context(), request.Token)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			s.writeJSON(w, http.StatusOK, api.TokenResponse{Valid: false})
			return
		}
		s.writeServiceError(w, err)
		return
	}
	s.daemon.listens.SetToken(request.Token)
	s.writeJSON(w, http.StatusOK, api.TokenResponse{Valid: true, UserName: user})
}

func (s *apiServer) decodeListen(w http.ResponseWriter, r *http.Request) (api.ListenRequest, bool) {
	var request api.ListenRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return api.ListenRequest{}, false
	}
	if strings.TrimSpace(request.TrackName) == "" || strings.TrimSpace(request.ArtistName) == "" {
		s.writeError(w, http.StatusBadRequest, "track_name and artist_name are required")
		return api.ListenRequest{}, false
	}
	return request, true
}

func boolParam(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}

func (s *apiServer) writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "not found")
		return
	}
	s.writeError(w, services.HTTPStatus(err), err.Error())
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}
