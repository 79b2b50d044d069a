package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/program-builder/internal/builder"
	"alcyxob/program-builder/internal/domain"
	"alcyxob/program-builder/internal/repository"
	"alcyxob/program-builder/internal/storage"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound     = errors.New("editing session not found")
	ErrProgramNotFound     = errors.New("program not found")
	ErrProgramAccessDenied = errors.New("access denied to this program")
	ErrProgramInvalid      = errors.New("program validation failed")
	ErrArchiveUnavailable  = errors.New("program archive is not configured")
	ErrNoSnapshot          = errors.New("program has no archived snapshot")
)

// UnknownExerciseName stands in for a saved exercise whose template is gone.
const UnknownExerciseName = "Unknown exercise"

// SessionView is what every session operation hands back: the current tree,
// the selection and the notifications raised since the previous call.
type SessionView struct {
	ID            string
	ProgramID     string // Empty until the first save
	Program       domain.Program
	Selection     builder.Selection
	Notifications []builder.Notification
}

// EditFunc runs one edit against a session's editor.
type EditFunc func(e *builder.Editor) error

type ProgramService interface {
	// OpenSession starts editing a new program, or a saved one when
	// programID is set.
	OpenSession(ctx context.Context, ownerID, programID string) (*SessionView, error)
	GetSession(ownerID, sessionID string) (*SessionView, error)
	CloseSession(ownerID, sessionID string) error
	// Edit applies fn under the session lock. The view is returned even
	// when fn fails so callers can show the unchanged tree.
	Edit(ownerID, sessionID string, fn EditFunc) (*SessionView, error)
	AddWorkout(ctx context.Context, ownerID, sessionID, templateID string) (*SessionView, error)
	AddExercise(ctx context.Context, ownerID, sessionID, workoutID, templateID string) (*SessionView, error)
	Save(ctx context.Context, ownerID, sessionID string) (*SessionView, error)
	PruneIdle(now time.Time) int
	ListPrograms(ctx context.Context, ownerID string, page repository.Page) ([]domain.ProgramRecord, int64, error)
	ExportURL(ctx context.Context, ownerID, programID string) (string, error)
}

// ProgramServiceConfig tunes sessions and saving.
type ProgramServiceConfig struct {
	SelectFirstItem bool
	SessionTTL      time.Duration
	SaveTimeout     time.Duration
	ArchivePrefix   string
	PresignExpiry   time.Duration
	MaxPageSize     int
}

type session struct {
	mu         sync.Mutex
	id         string
	ownerID    string
	programID  primitive.ObjectID
	archiveKey string
	editor     *builder.Editor
	notes      *builder.NotificationLog
	lastUsed   atomic.Int64 // unix nanos
}

func (s *session) touch(now time.Time) {
	s.lastUsed.Store(now.UnixNano())
}

// programService implements the ProgramService interface.
type programService struct {
	programRepo repository.ProgramRepository
	templates   TemplateService
	archive     storage.ProgramArchive // nil when S3 is not configured
	cfg         ProgramServiceConfig
	validate    *validator.Validate
	now         func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewProgramService creates the program editing service. archive may be nil.
func NewProgramService(programRepo repository.ProgramRepository, templates TemplateService, archive storage.ProgramArchive, cfg ProgramServiceConfig) ProgramService {
	return newProgramService(programRepo, templates, archive, cfg)
}

func newProgramService(programRepo repository.ProgramRepository, templates TemplateService, archive storage.ProgramArchive, cfg ProgramServiceConfig) *programService {
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 10 * time.Second
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = MaxPageSize
	}
	return &programService{
		programRepo: programRepo,
		templates:   templates,
		archive:     archive,
		cfg:         cfg,
		validate:    validator.New(),
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
}

func (s *programService) OpenSession(ctx context.Context, ownerID, programID string) (*SessionView, error) {
	program := domain.NewProgram()
	sess := &session{
		id:      uuid.NewString(),
		ownerID: ownerID,
		notes:   &builder.NotificationLog{Next: builder.LogNotifier{}},
	}

	if programID != "" {
		record, err := s.ownedProgram(ctx, ownerID, programID)
		if err != nil {
			return nil, err
		}
		program, err = s.hydrate(ctx, record)
		if err != nil {
			return nil, err
		}
		sess.programID = record.ID
		sess.archiveKey = record.ArchiveKey
	}

	sess.editor = builder.NewEditor(builder.NewFormState(program), builder.Options{
		SelectFirstItem: s.cfg.SelectFirstItem,
		Notifier:        sess.notes,
	})
	if err := sess.editor.Load(); err != nil {
		log.Printf("ERROR: Failed to load program %s into session: %v", programID, err)
		return nil, fmt.Errorf("load program: %w", err)
	}
	sess.touch(s.now())

	s.mu.Lock()
	s.sessions[sess.id] = sess
	activeSessions.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	log.Printf("INFO: Session %s opened by %s (program %q)", sess.id, ownerID, programID)
	return s.view(sess), nil
}

func (s *programService) GetSession(ownerID, sessionID string) (*SessionView, error) {
	return s.Edit(ownerID, sessionID, nil)
}

func (s *programService) CloseSession(ownerID, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.ownerID != ownerID {
		return ErrSessionNotFound
	}
	delete(s.sessions, sessionID)
	activeSessions.Set(float64(len(s.sessions)))
	return nil
}

func (s *programService) Edit(ownerID, sessionID string, fn EditFunc) (*SessionView, error) {
	sess, err := s.session(ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if fn != nil {
		err = fn(sess.editor)
	}
	return s.view(sess), err
}

// AddWorkout looks the template up before taking the session lock.
func (s *programService) AddWorkout(ctx context.Context, ownerID, sessionID, templateID string) (*SessionView, error) {
	if _, err := s.session(ownerID, sessionID); err != nil {
		return nil, err
	}
	tpl, err := s.templates.GetWorkout(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return s.Edit(ownerID, sessionID, func(e *builder.Editor) error {
		_, err := e.AddWorkout(*tpl)
		return err
	})
}

func (s *programService) AddExercise(ctx context.Context, ownerID, sessionID, workoutID, templateID string) (*SessionView, error) {
	if _, err := s.session(ownerID, sessionID); err != nil {
		return nil, err
	}
	tpl, err := s.templates.GetExercise(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return s.Edit(ownerID, sessionID, func(e *builder.Editor) error {
		_, err := e.AddExercise(workoutID, *tpl)
		return err
	})
}

// Save validates the program and writes it to MongoDB, then archives a
// snapshot when an archive is configured. A failed save leaves the tree
// exactly as it was.
func (s *programService) Save(ctx context.Context, ownerID, sessionID string) (*SessionView, error) {
	sess, err := s.session(ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	payload := sess.editor.Payload()
	if err := s.validate.Struct(payload); err != nil {
		reason := describeValidation(err)
		savesTotal.WithLabelValues("invalid").Inc()
		sess.notes.Notify(builder.Notification{Severity: builder.SeverityError, Message: "Program is invalid: " + reason})
		return s.view(sess), fmt.Errorf("%w: %s", ErrProgramInvalid, reason)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.SaveTimeout)
	defer cancel()
	start := s.now()
	defer func() { saveDuration.Observe(time.Since(start).Seconds()) }()

	record := &domain.ProgramRecord{ID: sess.programID, OwnerID: ownerID, ProgramPayload: payload}
	created := sess.programID.IsZero()
	if created {
		var id primitive.ObjectID
		id, err = s.programRepo.Create(ctx, record)
		record.ID = id
	} else {
		err = s.programRepo.Update(ctx, record)
	}
	if err != nil {
		log.Printf("ERROR: Failed to save program for session %s: %v", sess.id, err)
		savesTotal.WithLabelValues("error").Inc()
		sess.notes.Notify(builder.Notification{Severity: builder.SeverityError, Message: "Failed to save program"})
		if errors.Is(err, repository.ErrNotFound) {
			return s.view(sess), ErrProgramNotFound
		}
		return s.view(sess), fmt.Errorf("save program: %w", err)
	}
	sess.programID = record.ID

	s.archiveSnapshot(ctx, sess, record)

	savesTotal.WithLabelValues("ok").Inc()
	msg := "Program updated successfully"
	if created {
		msg = "Program created successfully"
	}
	sess.notes.Notify(builder.Notification{Severity: builder.SeveritySuccess, Message: msg})
	return s.view(sess), nil
}

// archiveSnapshot is best effort: the program is already saved, so a
// failure only produces a warning.
func (s *programService) archiveSnapshot(ctx context.Context, sess *session, record *domain.ProgramRecord) {
	if s.archive == nil {
		return
	}
	body, err := json.Marshal(record)
	if err == nil {
		key := storage.SnapshotKey(s.cfg.ArchivePrefix, record.ID.Hex(), s.now())
		if err = s.archive.PutSnapshot(ctx, key, body); err == nil {
			err = s.programRepo.SetArchiveKey(ctx, record.ID, key)
		}
		if err == nil {
			previous := sess.archiveKey
			sess.archiveKey = key
			if previous != "" && previous != key {
				if delErr := s.archive.DeleteObject(ctx, previous); delErr != nil {
					log.Printf("WARN: Failed to delete old snapshot %s: %v", previous, delErr)
				}
			}
			return
		}
	}
	log.Printf("WARN: Failed to archive program %s: %v", record.ID.Hex(), err)
	sess.notes.Notify(builder.Notification{Severity: builder.SeverityWarning, Message: "Program saved but the snapshot could not be archived"})
}

// PruneIdle drops sessions unused for longer than the session TTL.
func (s *programService) PruneIdle(now time.Time) int {
	if s.cfg.SessionTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-s.cfg.SessionTTL).UnixNano()

	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	for id, sess := range s.sessions {
		if sess.lastUsed.Load() < cutoff {
			delete(s.sessions, id)
			pruned++
		}
	}
	activeSessions.Set(float64(len(s.sessions)))
	if pruned > 0 {
		log.Printf("INFO: Pruned %d idle editing sessions", pruned)
	}
	return pruned
}

func (s *programService) ListPrograms(ctx context.Context, ownerID string, page repository.Page) ([]domain.ProgramRecord, int64, error) {
	return s.programRepo.ListByOwner(ctx, ownerID, NormalizePage(page, s.cfg.MaxPageSize))
}

// ExportURL returns a short-lived download link for the latest snapshot.
func (s *programService) ExportURL(ctx context.Context, ownerID, programID string) (string, error) {
	if s.archive == nil {
		return "", ErrArchiveUnavailable
	}
	record, err := s.ownedProgram(ctx, ownerID, programID)
	if err != nil {
		return "", err
	}
	if record.ArchiveKey == "" {
		return "", ErrNoSnapshot
	}
	return s.archive.GeneratePresignedDownloadURL(ctx, record.ArchiveKey, s.cfg.PresignExpiry)
}

func (s *programService) session(ownerID, sessionID string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || sess.ownerID != ownerID {
		return nil, ErrSessionNotFound
	}
	sess.touch(s.now())
	return sess, nil
}

func (s *programService) ownedProgram(ctx context.Context, ownerID, programID string) (*domain.ProgramRecord, error) {
	objID, err := primitive.ObjectIDFromHex(programID)
	if err != nil {
		return nil, ErrProgramNotFound
	}
	record, err := s.programRepo.GetByID(ctx, objID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}
	if record.OwnerID != ownerID {
		return nil, ErrProgramAccessDenied
	}
	return record, nil
}

// hydrate turns a saved record back into an editable program. Exercise
// references are re-resolved from the library; the tree gets fresh node ids.
func (s *programService) hydrate(ctx context.Context, record *domain.ProgramRecord) (domain.Program, error) {
	var refIDs []string
	for _, w := range record.AllocatedWorkouts {
		for _, ex := range w.AllocatedExercises {
			refIDs = append(refIDs, ex.ExerciseID)
		}
	}
	refs, err := s.templates.ResolveExercises(ctx, refIDs)
	if err != nil {
		return domain.Program{}, fmt.Errorf("resolve exercises: %w", err)
	}

	program := domain.Program{
		Name:         record.Name,
		Description:  record.Description,
		DurationDays: record.DurationDays,
		RotationDays: record.RotationDays,
		Status:       record.Status,
		Workouts:     make([]domain.AllocatedWorkout, 0, len(record.AllocatedWorkouts)),
	}
	for _, w := range record.AllocatedWorkouts {
		aw := domain.AllocatedWorkout{
			Order:      w.Order,
			Note:       w.Note,
			WorkoutRef: domain.WorkoutTemplate{Name: w.Name},
		}
		if id, err := primitive.ObjectIDFromHex(w.WorkoutID); err == nil {
			aw.WorkoutRef.ID = id
		}
		for _, ex := range w.AllocatedExercises {
			ref, ok := refs[ex.ExerciseID]
			if !ok {
				ref = domain.ExerciseTemplate{Name: UnknownExerciseName}
				if id, err := primitive.ObjectIDFromHex(ex.ExerciseID); err == nil {
					ref.ID = id
				}
			}
			ae := domain.AllocatedExercise{Order: ex.Order, Notes: ex.Notes, ExerciseRef: ref}
			for _, set := range ex.Sets {
				ae.Sets = append(ae.Sets, domain.Set{Type: set.Type, Value: set.Value, BreakTime: set.BreakTime})
			}
			aw.Exercises = append(aw.Exercises, ae)
		}
		program.Workouts = append(program.Workouts, aw)
	}
	return program, nil
}

func (s *programService) view(sess *session) *SessionView {
	v := &SessionView{
		ID:            sess.id,
		Program:       sess.editor.Program(),
		Selection:     sess.editor.Selection(),
		Notifications: sess.notes.Drain(),
	}
	if !sess.programID.IsZero() {
		v.ProgramID = sess.programID.Hex()
	}
	return v
}

// describeValidation names the first failing field of a validation error.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
	return err.Error()
}
