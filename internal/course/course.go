// Package course describes how a course is laid out in the bucket and
// materializes a new course skeleton: the course meta.json plus one folder
// and meta.json per week.
package course

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	// Weeks is the number of week folders created for every course.
	Weeks = 16

	StatusScheduled = "SCHEDULED"

	metaFile = "meta.json"
)

// ErrMissingFields is returned when category, subcategory or name is empty.
var ErrMissingFields = errors.New("Category, subcategory, and course name are required")

// CreateRequest is the body accepted when creating a course. Title is nil when
// the field is absent or null. Description and InstructorID take any JSON
// value and are stored unchanged.
type CreateRequest struct {
	Category     string  `json:"category"`
	Subcategory  string  `json:"subcategory"`
	Name         string  `json:"name"`
	Title        *string `json:"title"`
	Description  any     `json:"description"`
	InstructorID any     `json:"instructor_id"`
}

// Validate reports ErrMissingFields unless category, subcategory and name are set.
func (r CreateRequest) Validate() error {
	if r.Category == "" || r.Subcategory == "" || r.Name == "" {
		return ErrMissingFields
	}
	return nil
}

// Meta is the document stored at {course path}/meta.json.
type Meta struct {
	Title        string `json:"title"`
	Description  any    `json:"description"`
	InstructorID any    `json:"instructor_id"`
	CreatedAt    string `json:"createdAt"`
	LastModified string `json:"lastModified"`
}

// WeekMeta is the document stored in every week folder.
type WeekMeta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// Course is the created course as reported back to the caller.
type Course struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Meta
}

// Path is the key prefix every object of the course lives under.
func Path(category, subcategory, name string) string {
	return fmt.Sprintf("%s/%s/courses/%s", category, subcategory, name)
}

// MetaKey is the key of the course meta.json.
func MetaKey(coursePath string) string {
	return coursePath + "/" + metaFile
}

// WeekFolder is the marker key standing for the folder of week n.
func WeekFolder(coursePath string, week int) string {
	return fmt.Sprintf("%s/%d주차/", coursePath, week)
}

// WeekMetaKey is the key of the meta.json inside the folder of week.
func WeekMetaKey(coursePath string, week int) string {
	return WeekFolder(coursePath, week) + metaFile
}

// NewMeta fills the optional fields of r with their defaults: an absent
// title becomes the course name, absent description and instructor_id become
// "". An explicit empty title is kept. Both timestamps are set to now.
func NewMeta(r CreateRequest, now time.Time) Meta {
	title := r.Name
	if r.Title != nil {
		title = *r.Title
	}
	stamp := now.UTC().Format(time.RFC3339Nano)
	return Meta{
		Title:        title,
		Description:  orEmpty(r.Description),
		InstructorID: orEmpty(r.InstructorID),
		CreatedAt:    stamp,
		LastModified: stamp,
	}
}

// NewWeekMeta is the meta a week starts with, in the scheduled status.
func NewWeekMeta(week int) WeekMeta {
	return WeekMeta{
		Title:       fmt.Sprintf("%d주차", week),
		Description: "",
		Status:      StatusScheduled,
	}
}

func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}

// Writer stores one object.
type Writer interface {
	Put(ctx context.Context, key string, body []byte) error
}

// Create writes the course meta.json and then, week by week in ascending
// order, the week folder marker and the week meta.json. Both writes of a week
// are attempted; a failure in a week stops the sequence before the next one.
// Objects already written are left in place.
func Create(ctx context.Context, w Writer, r CreateRequest, now time.Time) (*Course, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	coursePath := Path(r.Category, r.Subcategory, r.Name)
	meta := NewMeta(r, now)

	body, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	if err := w.Put(ctx, MetaKey(coursePath), body); err != nil {
		return nil, err
	}

	for week := 1; week <= Weeks; week++ {
		if err := writeWeek(ctx, w, coursePath, week); err != nil {
			return nil, err
		}
	}

	return &Course{Name: r.Name, Path: coursePath, Meta: meta}, nil
}

func writeWeek(ctx context.Context, w Writer, coursePath string, week int) error {
	body, err := json.Marshal(NewWeekMeta(week))
	if err != nil {
		return err
	}
	folderErr := w.Put(ctx, WeekFolder(coursePath, week), []byte{})
	metaErr := w.Put(ctx, WeekMetaKey(coursePath, week), body)
	return errors.Join(folderErr, metaErr)
}
