package user

// ══════════════════════════════════════════════════════════════════════════════
// STATISTICS AGGREGATOR
// Счётчики обновляются как побочный эффект действий учащегося. Все поля,
// кроме today_xp, монотонно не убывают. today_xp - накопитель с момента
// последнего сброса прогресса, автоматического обнуления в полночь нет.
// ══════════════════════════════════════════════════════════════════════════════

// Statistics - агрегированные счётчики одного учащегося.
type Statistics struct {
	TotalQuestionsAnswered int `json:"total_questions_answered"`
	TotalCorrectAnswers    int `json:"total_correct_answers"`
	TotalXPEarned          int `json:"total_xp_earned"`
	TodayXP                int `json:"today_xp"`
	LessonsCompleted       int `json:"lessons_completed"`
	ChaptersCompleted      int `json:"chapters_completed"`
	MaxStreak              int `json:"max_streak"`
	MaxDailyLessons        int `json:"max_daily_lessons"`
	PerfectLessons         int `json:"perfect_lessons"`
}

// ApplyLessonCompletion учитывает завершение урока: начисленный XP,
// счётчик уроков и идеальные прохождения.
func (s *Statistics) ApplyLessonCompletion(xpEarned, score int) {
	s.TotalXPEarned += xpEarned
	s.TodayXP += xpEarned
	s.LessonsCompleted++
	if score == PerfectScore {
		s.PerfectLessons++
	}
}

// ApplyAnswer учитывает ответ на вопрос.
func (s *Statistics) ApplyAnswer(correct bool) {
	s.TotalQuestionsAnswered++
	if correct {
		s.TotalCorrectAnswers++
	}
}

// ObserveDailyLessons поддерживает рекорд уроков за один день.
func (s *Statistics) ObserveDailyLessons(lessonsToday int) {
	if lessonsToday > s.MaxDailyLessons {
		s.MaxDailyLessons = lessonsToday
	}
}

// ObserveStreak поддерживает инвариант max_streak >= текущая серия.
func (s *Statistics) ObserveStreak(streak int) {
	if streak > s.MaxStreak {
		s.MaxStreak = streak
	}
}
