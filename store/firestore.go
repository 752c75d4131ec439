package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"task-manager/models"
)

const firestoreCollection = "tasks"

type firestoreTask struct {
	Title       string     `firestore:"title"`
	Description string     `firestore:"description"`
	DueDate     *time.Time `firestore:"dueDate"`
	Priority    string     `firestore:"priority"`
	Category    string     `firestore:"category"`
	Status      string     `firestore:"status"`
	CreatedAt   time.Time  `firestore:"createdAt"`
	UpdatedAt   time.Time  `firestore:"updatedAt"`
	Seq         int64      `firestore:"seq"`
}

func toFirestore(t *models.Task, seq int64) firestoreTask {
	return firestoreTask{
		Seq:         seq,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		Category:    t.Category,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func fromSnapshot(snap *firestore.DocumentSnapshot) (models.Task, error) {
	d, err := decodeSnapshot(snap)
	return d.task, err
}

func decodeSnapshot(snap *firestore.DocumentSnapshot) (firestoreDoc, error) {
	var d firestoreTask
	if err := snap.DataTo(&d); err != nil {
		return firestoreDoc{}, fmt.Errorf("failed to decode task %s: %w", snap.Ref.ID, err)
	}
	t := models.Task{
		ID:          snap.Ref.ID,
		Title:       d.Title,
		Description: d.Description,
		Priority:    models.Priority(d.Priority),
		Category:    d.Category,
		Status:      models.Status(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		t.DueDate = &due
	}
	return firestoreDoc{task: t, seq: d.Seq}, nil
}

// doc returns nil for ids Firestore cannot address, such as ones with a slash.
func (f *Firestore) doc(id string) *firestore.DocumentRef {
	if id == "" || strings.Contains(id, "/") {
		return nil
	}
	return f.client.Collection(firestoreCollection).Doc(id)
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// Firestore stores tasks as documents in the "tasks" collection. Document
// IDs are generated by Firestore; the hidden seq field orders documents
// created at the same instant.
type Firestore struct {
	client *firestore.Client
}

var _ Store = (*Firestore)(nil)

// NewFirestore initializes a Firebase app for projectID. credentialsPath may
// be empty when running against the emulator or with default credentials.
func NewFirestore(ctx context.Context, projectID, credentialsPath string) (*Firestore, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get firestore client: %w", err)
	}
	return &Firestore{client: client}, nil
}

func (f *Firestore) Insert(ctx context.Context, task *models.Task) error {
	ref := f.client.Collection(firestoreCollection).NewDoc()
	if _, err := ref.Create(ctx, toFirestore(task, time.Now().UnixNano())); err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	task.ID = ref.ID
	return nil
}

// List filters on status alone and orders in process, so the query is
// served by Firestore's automatic single-field indexes.
func (f *Firestore) List(ctx context.Context, s models.Status) ([]models.Task, error) {
	q := f.client.Collection(firestoreCollection).Query
	if s != "" {
		q = q.Where("status", "==", string(s))
	}
	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	docs := make([]firestoreDoc, 0, len(snaps))
	for _, snap := range snaps {
		d, err := decodeSnapshot(snap)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return orderFirestoreDocs(docs), nil
}

type firestoreDoc struct {
	task models.Task
	seq  int64
}

// orderFirestoreDocs sorts by createdAt, newest first, then by insert
// sequence, latest first.
func orderFirestoreDocs(docs []firestoreDoc) []models.Task {
	sort.Slice(docs, func(i, j int) bool {
		a, b := docs[i], docs[j]
		if !a.task.CreatedAt.Equal(b.task.CreatedAt) {
			return a.task.CreatedAt.After(b.task.CreatedAt)
		}
		return a.seq > b.seq
	})
	tasks := make([]models.Task, len(docs))
	for i, d := range docs {
		tasks[i] = d.task
	}
	return tasks
}

func (f *Firestore) Get(ctx context.Context, id string) (*models.Task, error) {
	ref := f.doc(id)
	if ref == nil {
		return nil, ErrNotFound
	}
	snap, err := ref.Get(ctx)
	if isNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	t, err := fromSnapshot(snap)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (f *Firestore) Save(ctx context.Context, task *models.Task) error {
	ref := f.doc(task.ID)
	if ref == nil {
		return ErrNotFound
	}
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var old firestoreTask
		if err := snap.DataTo(&old); err != nil {
			return err
		}
		return tx.Set(ref, toFirestore(task, old.Seq))
	})
	if isNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

func (f *Firestore) Delete(ctx context.Context, id string) error {
	ref := f.doc(id)
	if ref == nil {
		return ErrNotFound
	}
	_, err := ref.Delete(ctx, firestore.Exists)
	if isNotFound(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// Ping reads a document that does not need to exist.
func (f *Firestore) Ping(ctx context.Context) error {
	_, err := f.client.Collection(firestoreCollection).Doc("_ping").Get(ctx)
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
