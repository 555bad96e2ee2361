package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatistics_ApplyLessonCompletion(t *testing.T) {
	var s Statistics

	s.ApplyLessonCompletion(20, 100)
	assert.Equal(t, 20, s.TotalXPEarned)
	assert.Equal(t, 20, s.TodayXP)
	assert.Equal(t, 1, s.LessonsCompleted)
	assert.Equal(t, 1, s.PerfectLessons)

	s.ApplyLessonCompletion(15, 80)
	assert.Equal(t, 35, s.TotalXPEarned)
	assert.Equal(t, 2, s.LessonsCompleted)
	assert.Equal(t, 1, s.PerfectLessons, "non-perfect score must not count")
}

func TestStatistics_ApplyAnswer(t *testing.T) {
	var s Statistics

	s.ApplyAnswer(true)
	s.ApplyAnswer(false)
	s.ApplyAnswer(true)

	assert.Equal(t, 3, s.TotalQuestionsAnswered)
	assert.Equal(t, 2, s.TotalCorrectAnswers)
}

func TestStatistics_ObserveDailyLessonsKeepsMaximum(t *testing.T) {
	var s Statistics

	s.ObserveDailyLessons(3)
	s.ObserveDailyLessons(1)
	s.ObserveDailyLessons(5)
	s.ObserveDailyLessons(4)

	assert.Equal(t, 5, s.MaxDailyLessons)
}

func TestStatistics_ObserveStreakNeverDecreases(t *testing.T) {
	var s Statistics

	s.ObserveStreak(7)
	s.ObserveStreak(1)

	assert.Equal(t, 7, s.MaxStreak)
	assert.GreaterOrEqual(t, s.MaxStreak, 1)
}
