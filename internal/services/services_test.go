package services

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-manager.com/task-manager/internal/auth"
	"task-manager.com/task-manager/internal/cache"
	"task-manager.com/task-manager/internal/constants"
	dto "task-manager.com/task-manager/internal/data_models"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	"task-manager.com/task-manager/internal/notify"
	"task-manager.com/task-manager/internal/queue"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/storage"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// recordingNotifier keeps every message it is asked to deliver.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []notify.Message
}

func (n *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.messages = append(n.messages, msg)
	return nil
}

func (n *recordingNotifier) sent() []notify.Message {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]notify.Message(nil), n.messages...)
}

type recordingMailer struct {
	recordingNotifier
}

func (m *recordingMailer) Send(ctx context.Context, msg notify.Message) error {
	return m.Notify(ctx, msg)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	return db
}

type fixture struct {
	db       *gorm.DB
	blobRoot string
	blobs    *storage.LocalStore
	store    *cache.MemoryStore
	notifier *recordingNotifier
	identity *IdentityService
	tasks    *TaskService
	comments *CommentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := setupTestDB(t)
	log := discardLogger()

	blobRoot := t.TempDir()
	blobs, err := storage.NewLocalStore(blobRoot)
	require.NoError(t, err)

	store := cache.NewMemoryStore()
	listCache, err := cache.New(store, "test_", log)
	require.NoError(t, err)

	users := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	notifier := &recordingNotifier{}

	return &fixture{
		db:       db,
		blobRoot: blobRoot,
		blobs:    blobs,
		store:    store,
		notifier: notifier,
		identity: NewIdentityService(
			users,
			repository.NewTokenRepository(db),
			auth.NewPasswordHasher(bcrypt.MinCost),
			auth.NewTokenManager("test-secret", "task-manager", 0),
			log,
		),
		tasks: NewTaskService(taskRepo, storage.NewAttachments(blobs), listCache, time.Hour, log),
		comments: NewCommentService(
			repository.NewCommentRepository(db),
			taskRepo,
			users,
			notifier,
			"http://localhost:8080",
			log,
		),
	}
}

func (f *fixture) register(t *testing.T, name string) *model.User {
	t.Helper()
	user, _, err := f.identity.Register(context.Background(), dto.RegisterRequest{
		Name:                 name,
		Email:                name + "@example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) createTask(t *testing.T, user *model.User, title string, status constants.TaskStatus) *model.Task {
	t.Helper()
	task, err := f.tasks.Create(context.Background(), user, dto.CreateTaskRequest{
		Title:  title,
		Status: string(status),
	}, nil)
	require.NoError(t, err)
	return task
}

func newUpload(t *testing.T, name string, content []byte) *storage.Upload {
	t.Helper()
	u, err := storage.NewUpload(name, int64(len(content)), bytes.NewReader(content))
	require.NoError(t, err)
	return u
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has(field), "expected validation error on %q, got %v", field, verr.Fields)
}

func strPtr(s string) *string { return &s }

func (f *fixture) blobCount(t *testing.T) int {
	t.Helper()
	count := 0
	err := filepath.WalkDir(f.blobRoot, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			count++
		}
		return err
	})
	require.NoError(t, err)
	return count
}

func taskIDs(tasks []model.Task) []string {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

func TestIdentityService_RegisterLoginLogout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, token, err := f.identity.Register(ctx, dto.RegisterRequest{
		Name:                 "Alice",
		Email:                "alice@example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "password123", user.Password)

	authed, row, err := f.identity.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, second, err := f.identity.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, f.identity.Logout(ctx, row.ID))

	_, _, err = f.identity.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, _, err = f.identity.Authenticate(ctx, second)
	assert.NoError(t, err, "logout revokes only the presented token")
}

func TestIdentityService_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "taken")

	tests := []struct {
		name  string
		req   dto.RegisterRequest
		field string
	}{
		{"missing name", dto.RegisterRequest{Email: "a@example.com", Password: "password123", PasswordConfirmation: "password123"}, "name"},
		{"duplicate email", dto.RegisterRequest{Name: "x", Email: "taken@example.com", Password: "password123", PasswordConfirmation: "password123"}, "email"},
		{"short password", dto.RegisterRequest{Name: "x", Email: "b@example.com", Password: "short", PasswordConfirmation: "short"}, "password"},
		{"unconfirmed password", dto.RegisterRequest{Name: "x", Email: "c@example.com", Password: "password123", PasswordConfirmation: "password124"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.identity.Register(ctx, tt.req)
			requireValidationField(t, err, tt.field)
		})
	}
}

func TestIdentityService_LoginRejectsBadCredentials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.register(t, "alice")

	_, _, err := f.identity.Login(ctx, dto.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, err = f.identity.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, _, err = f.identity.Login(ctx, dto.LoginRequest{Email: "not-an-email"})
	requireValidationField(t, err, "email")
}

func TestIdentityService_AuthenticateRejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.identity.Authenticate(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestTaskService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	_, err := f.tasks.Create(ctx, alice, dto.CreateTaskRequest{Status: "pending"}, nil)
	requireValidationField(t, err, "title")

	_, err = f.tasks.Create(ctx, alice, dto.CreateTaskRequest{Title: "x", Status: "archived"}, nil)
	requireValidationField(t, err, "status")

	_, err = f.tasks.Create(ctx, alice, dto.CreateTaskRequest{Title: "x", Status: "pending"},
		newUpload(t, "notes.txt", []byte("plain text")))
	requireValidationField(t, err, "attachment")

	tasks, err := f.tasks.List(ctx, alice, dto.ListTasksQuery{})
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskService_CreateTrimsTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	_, err := f.tasks.Create(ctx, alice, dto.CreateTaskRequest{Title: "   ", Status: "pending"}, nil)
	requireValidationField(t, err, "title")

	task, err := f.tasks.Create(ctx, alice, dto.CreateTaskRequest{Title: "  Padded  ", Status: "pending"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Padded", task.Title)
}

func TestTaskService_UpdateRejectsBlankTitleBeforeAnyChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	task, err := f.tasks.Create(ctx, alice, dto.CreateTaskRequest{Title: "Draft", Status: "pending"},
		newUpload(t, "photo.png", pngHeader))
	require.NoError(t, err)
	require.Equal(t, 1, f.blobCount(t))

	for _, blank := range []string{"", "  "} {
		_, err = f.tasks.Update(ctx, alice, task.ID, dto.UpdateTaskRequest{Title: strPtr(blank)},
			newUpload(t, "report.pdf", []byte("%PDF-1.4\n%test\n")))
		requireValidationField(t, err, "title")
	}

	stored, err := f.tasks.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Draft", stored.Title)
	require.True(t, stored.HasAttachment())
	assert.Equal(t, *task.Attachment, *stored.Attachment)

	exists, err := f.blobs.Exists(ctx, *task.Attachment)
	require.NoError(t, err)
	assert.True(t, exists, "current attachment is kept")
	assert.Equal(t, 1, f.blobCount(t), "rejected upload is not stored")
}

func TestTaskService_ListReflectsEveryWrite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	listed := func(status string) []string {
		tasks, err := f.tasks.List(ctx, alice, dto.ListTasksQuery{Status: status})
		require.NoError(t, err)
		return taskIDs(tasks)
	}

	// Warm every listing before writing.
	assert.Empty(t, listed("all"))
	assert.Empty(t, listed("pending"))
	assert.Empty(t, listed("completed"))

	task := f.createTask(t, alice, "Write report", constants.StatusPending)
	assert.Contains(t, listed("all"), task.ID)
	assert.Contains(t, listed("pending"), task.ID)

	_, err := f.tasks.Update(ctx, alice, task.ID, dto.UpdateTaskRequest{Status: strPtr("completed")}, nil)
	require.NoError(t, err)
	assert.NotContains(t, listed("pending"), task.ID)
	assert.Contains(t, listed("completed"), task.ID)

	require.NoError(t, f.tasks.Delete(ctx, alice, task.ID))
	assert.Empty(t, listed("all"))
	assert.Empty(t, listed("completed"))
}

func TestTaskService_SearchListingsAreInvalidated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	search := dto.ListTasksQuery{Search: "Report"}
	tasks, err := f.tasks.List(ctx, alice, search)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	task := f.createTask(t, alice, "quarterly report", constants.StatusPending)

	tasks, err = f.tasks.List(ctx, alice, search)
	require.NoError(t, err)
	assert.Equal(t, []string{task.ID}, taskIDs(tasks))
}

func TestTaskService_ListRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	_, err := f.tasks.List(context.Background(), alice, dto.ListTasksQuery{Status: "archived"})
	requireValidationField(t, err, "status")
}

func TestTaskService_ListingsAreScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	f.createTask(t, alice, "alice's", constants.StatusPending)
	mine := f.createTask(t, bob, "bob's", constants.StatusPending)

	tasks, err := f.tasks.List(ctx, bob, dto.ListTasksQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{mine.ID}, taskIDs(tasks))
}

func TestTaskService_ForeignTaskIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")
	bob := f.register(t, "bob")

	task, err := f.tasks.Create(ctx, alice, dto.CreateTaskRequest{Title: "private", Status: "pending"},
		newUpload(t, "photo.png", pngHeader))
	require.NoError(t, err)

	_, err = f.tasks.Get(ctx, bob, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.tasks.Update(ctx, bob, task.ID, dto.UpdateTaskRequest{Title: strPtr("stolen")}, nil)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, _, err = f.tasks.OpenAttachment(ctx, bob, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.tasks.RemoveAttachment(ctx, bob, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	assert.ErrorIs(t, f.tasks.Delete(ctx, bob, task.ID), apperrors.ErrForbidden)

	unchanged, err := f.tasks.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "private", unchanged.Title)
	require.True(t, unchanged.HasAttachment())

	exists, err := f.blobs.Exists(ctx, *unchanged.Attachment)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestTaskService_MissingTaskIsNotFound(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	_, err := f.tasks.Get(context.Background(), alice, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestTaskService_AttachmentLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	task, err := f.tasks.Create(ctx, alice, dto.CreateTaskRequest{Title: "with file", Status: "pending"},
		newUpload(t, "photo.png", pngHeader))
	require.NoError(t, err)
	require.True(t, task.HasAttachment())
	first := *task.Attachment
	assert.Regexp(t, `^tasks_attachments/`+task.ID+`/[0-9a-f-]{36}\.png$`, first)

	rc, info, err := f.tasks.OpenAttachment(ctx, alice, task.ID)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, pngHeader, body)
	assert.Equal(t, first, info.Path)

	pdf := []byte("%PDF-1.4\n%test\n")
	updated, err := f.tasks.Update(ctx, alice, task.ID, dto.UpdateTaskRequest{}, newUpload(t, "report.pdf", pdf))
	require.NoError(t, err)
	require.True(t, updated.HasAttachment())
	assert.NotEqual(t, first, *updated.Attachment)

	exists, err := f.blobs.Exists(ctx, first)
	require.NoError(t, err)
	assert.False(t, exists, "replaced attachment is removed")

	detached, err := f.tasks.RemoveAttachment(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.False(t, detached.HasAttachment())

	_, _, err = f.tasks.OpenAttachment(ctx, alice, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrAttachmentNotFound)

	_, err = f.tasks.RemoveAttachment(ctx, alice, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrNoAttachment)
}

func TestTaskService_OpenAttachmentReportsMissingBlob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	task, err := f.tasks.Create(ctx, alice, dto.CreateTaskRequest{Title: "with file", Status: "pending"},
		newUpload(t, "photo.png", pngHeader))
	require.NoError(t, err)
	require.NoError(t, f.blobs.Delete(ctx, *task.Attachment))

	_, _, err = f.tasks.OpenAttachment(ctx, alice, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrAttachmentMissing)
}

func TestTaskService_DeleteSoftDeletesAndRemovesBlob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.register(t, "alice")

	task, err := f.tasks.Create(ctx, alice, dto.CreateTaskRequest{Title: "doomed", Status: "pending"},
		newUpload(t, "photo.png", pngHeader))
	require.NoError(t, err)

	require.NoError(t, f.tasks.Delete(ctx, alice, task.ID))

	_, err = f.tasks.Get(ctx, alice, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

	var row model.Task
	require.NoError(t, f.db.Where("id = ?", task.ID).First(&row).Error)
	assert.NotNil(t, row.DeletedAt)

	exists, err := f.blobs.Exists(ctx, *task.Attachment)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCommentService_NotifiesOwnerOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner")
	other := f.register(t, "other")
	task := f.createTask(t, owner, "Discuss", constants.StatusPending)

	_, err := f.comments.Create(ctx, task.ID, other, dto.CommentRequest{Content: "looks good"})
	require.NoError(t, err)

	sent := f.notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@example.com", sent[0].To)
	assert.Equal(t, "New Comment on your Task", sent[0].Subject)
	assert.Equal(t, "http://localhost:8080/tasks/"+task.ID, sent[0].ActionURL)

	_, err = f.comments.Create(ctx, task.ID, owner, dto.CommentRequest{Content: "thanks"})
	require.NoError(t, err)

	sent = f.notifier.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "owner@example.com", sent[1].To)
}

func TestCommentService_CreateValidationAndListing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner")
	task := f.createTask(t, owner, "Discuss", constants.StatusPending)

	_, err := f.comments.Create(ctx, task.ID, owner, dto.CommentRequest{Content: "x"})
	requireValidationField(t, err, "content")
	_, err = f.comments.Create(ctx, task.ID, owner, dto.CommentRequest{Content: "   "})
	requireValidationField(t, err, "content")
	_, err = f.comments.Create(ctx, task.ID, owner, dto.CommentRequest{Content: " a "})
	requireValidationField(t, err, "content")
	assert.Empty(t, f.notifier.sent())

	first, err := f.comments.Create(ctx, task.ID, owner, dto.CommentRequest{Content: "first"})
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	second, err := f.comments.Create(ctx, task.ID, owner, dto.CommentRequest{Content: "second"})
	require.NoError(t, err)

	comments, err := f.comments.List(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, second.ID, comments[0].ID)
	assert.Equal(t, first.ID, comments[1].ID)
	require.NotNil(t, comments[0].Author)
	assert.Equal(t, "owner", comments[0].Author.Name)
}

func TestCommentService_DeletedTaskIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner")
	task := f.createTask(t, owner, "Gone", constants.StatusPending)
	require.NoError(t, f.tasks.Delete(ctx, owner, task.ID))

	_, err := f.comments.Create(ctx, task.ID, owner, dto.CommentRequest{Content: "hello"})
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)

	_, err = f.comments.List(ctx, task.ID)
	assert.ErrorIs(t, err, apperrors.ErrTaskNotFound)
}

func TestCommentService_OnlyAuthorMayChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner")
	author := f.register(t, "author")
	task := f.createTask(t, owner, "Discuss", constants.StatusPending)

	comment, err := f.comments.Create(ctx, task.ID, author, dto.CommentRequest{Content: "original"})
	require.NoError(t, err)

	_, err = f.comments.Update(ctx, comment.ID, owner, dto.CommentRequest{Content: "hijacked"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.ErrorIs(t, f.comments.Delete(ctx, comment.ID, owner), apperrors.ErrForbidden)

	unchanged, err := f.comments.Get(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", unchanged.Content)

	updated, err := f.comments.Update(ctx, comment.ID, author, dto.CommentRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, f.comments.Delete(ctx, comment.ID, author))
	_, err = f.comments.Get(ctx, comment.ID)
	assert.ErrorIs(t, err, apperrors.ErrCommentNotFound)
}

func TestDispatchService_DeliversQueuedNotifications(t *testing.T) {
	q := queue.NewMemoryQueue(10)
	mailer := &recordingMailer{}
	dispatcher := newDispatchService(q, mailer, 2, 50*time.Millisecond, discardLogger())

	notifier := notify.NewQueueNotifier(q)
	for i := 0; i < 3; i++ {
		require.NoError(t, notifier.Notify(context.Background(), notify.Message{
			To:      "owner@example.com",
			Subject: "New Comment on your Task",
		}))
	}

	assert.Eventually(t, func() bool {
		return len(mailer.sent()) == 3
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	dispatcher.Shutdown(ctx)
	assert.Equal(t, 0, q.Len())
}

func TestDispatchService_DropsUndecodablePayloads(t *testing.T) {
	q := queue.NewMemoryQueue(10)
	mailer := &recordingMailer{}
	dispatcher := newDispatchService(q, mailer, 1, 50*time.Millisecond, discardLogger())

	require.NoError(t, q.Push(context.Background(), []byte("{not json")))
	require.NoError(t, notify.NewQueueNotifier(q).Notify(context.Background(), notify.Message{To: "a@example.com"}))

	assert.Eventually(t, func() bool {
		return len(mailer.sent()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	dispatcher.Shutdown(ctx)
}
