package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/alama/core/academic"
)

type (
	semesterTable struct {
		mutex sync.RWMutex
		table map[uuid.UUID]*academic.Semester
	}
	courseTable struct {
		mutex sync.RWMutex
		table map[uuid.UUID]*academic.Course
	}
	profileTable struct {
		mutex sync.RWMutex
		table map[uuid.UUID]*academic.Profile
	}
	preferencesTable struct {
		mutex sync.RWMutex
		table map[uuid.UUID]*academic.Preferences
	}

	DB struct {
		semester    *semesterTable
		course      *courseTable
		profile     *profileTable
		preferences *preferencesTable
	}
)

func NewDB() *DB {
	return &DB{
		semester:    &semesterTable{table: make(map[uuid.UUID]*academic.Semester)},
		course:      &courseTable{table: make(map[uuid.UUID]*academic.Course)},
		profile:     &profileTable{table: make(map[uuid.UUID]*academic.Profile)},
		preferences: &preferencesTable{table: make(map[uuid.UUID]*academic.Preferences)},
	}
}
