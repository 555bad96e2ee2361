// Package user содержит доменную модель прогресса учащегося CPA Path.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package user

import (
	"time"

	"github.com/cpa-path/cpa-path-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONSTANTS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// MaxLives - максимальное количество жизней.
	MaxLives = 5

	// HeartRecoveryInterval - интервал восстановления одной жизни.
	HeartRecoveryInterval = 10 * time.Minute

	// XPPerCorrectAnswer - награда за правильный ответ на вопрос.
	XPPerCorrectAnswer = 2

	// DefaultLessonScore - балл урока по умолчанию, если клиент его не прислал.
	DefaultLessonScore = 100

	// DefaultLessonXP - XP за урок по умолчанию.
	DefaultLessonXP = 20

	// PerfectScore - балл, при котором урок считается идеальным.
	PerfectScore = 100

	// DefaultLevel - начальный уровень учащегося.
	DefaultLevel = 1
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE
// ══════════════════════════════════════════════════════════════════════════════

// Profile - игровое состояние учащегося: опыт, серия, жизни.
type Profile struct {
	// XP - накопленные очки опыта. Никогда не уменьшается.
	XP int `json:"xp"`

	// Level - уровень учащегося (>= 1).
	Level int `json:"level"`

	// Streak - серия последовательных активных дней.
	Streak int `json:"streak"`

	// Lives - текущее количество жизней, всегда в диапазоне [0, MaxLives].
	Lives int `json:"lives"`

	// LastActiveDate - календарный день последней активности ("2006-01-02").
	// Пустая строка означает "никогда".
	LastActiveDate string `json:"last_active_date,omitempty"`

	// LastHeartRecovery - момент последнего начисления жизней.
	// nil означает, что восстановление ещё не запускалось.
	LastHeartRecovery *time.Time `json:"last_heart_recovery,omitempty"`
}

// NewProfile возвращает профиль по умолчанию: полные жизни, первый уровень.
func NewProfile() Profile {
	return Profile{
		XP:     0,
		Level:  DefaultLevel,
		Streak: 0,
		Lives:  MaxLives,
	}
}

// HasFullLives возвращает true, если жизни восстанавливать не нужно.
func (p *Profile) HasFullLives() bool {
	return p.Lives >= MaxLives
}

// LoseLife отнимает одну жизнь, не опускаясь ниже нуля.
func (p *Profile) LoseLife() {
	if p.Lives > 0 {
		p.Lives--
	}
}

// AddXP начисляет опыт. Отрицательные значения игнорируются:
// XP монотонно растёт.
func (p *Profile) AddXP(amount int) {
	if amount > 0 {
		p.XP += amount
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS RECORD
// ══════════════════════════════════════════════════════════════════════════════

// LessonCompletion - факт прохождения урока.
type LessonCompletion struct {
	// CompletedAt - когда урок был завершён (последний раз).
	CompletedAt time.Time `json:"completed_at"`

	// Score - балл за урок, 0-100.
	Score int `json:"score"`

	// XPEarned - XP, начисленный за это прохождение.
	XPEarned int `json:"xp_earned"`
}

// QuestionState - история ответов на один вопрос.
type QuestionState struct {
	// Correct - количество правильных ответов.
	Correct int `json:"correct"`

	// Wrong - количество неправильных ответов.
	Wrong int `json:"wrong"`
}

// DayActivity - активность за один календарный день.
type DayActivity struct {
	// XPEarned - заработано XP за день.
	XPEarned int `json:"xp_earned"`

	// LessonsCompleted - завершено уроков за день.
	LessonsCompleted int `json:"lessons_completed"`

	// QuestionsAnswered - отвечено вопросов за день.
	QuestionsAnswered int `json:"questions_answered"`

	// StreakActive - был ли уже выполнен дневной переход серии.
	// Делает переход идемпотентным в рамках одного дня.
	StreakActive bool `json:"streak_active"`
}

// ProgressRecord - полная история обучения одного учащегося.
type ProgressRecord struct {
	// Lessons - завершённые уроки по идентификатору урока.
	Lessons map[string]LessonCompletion `json:"lessons"`

	// QuestionStates - история ответов по идентификатору вопроса.
	QuestionStates map[string]*QuestionState `json:"question_states"`

	// Achievements - полученные достижения (пока всегда пусто).
	Achievements []string `json:"achievements"`

	// Statistics - агрегированные счётчики.
	Statistics Statistics `json:"statistics"`

	// DailyActivity - активность по календарным дням ("2006-01-02").
	DailyActivity map[string]*DayActivity `json:"daily_activity"`
}

// NewProgressRecord возвращает пустую историю обучения.
func NewProgressRecord() ProgressRecord {
	return ProgressRecord{
		Lessons:        make(map[string]LessonCompletion),
		QuestionStates: make(map[string]*QuestionState),
		Achievements:   []string{},
		Statistics:     Statistics{},
		DailyActivity:  make(map[string]*DayActivity),
	}
}

// QuestionStateFor возвращает состояние вопроса, создавая его при первом
// обращении.
func (r *ProgressRecord) QuestionStateFor(questionID string) *QuestionState {
	if r.QuestionStates == nil {
		r.QuestionStates = make(map[string]*QuestionState)
	}
	state, ok := r.QuestionStates[questionID]
	if !ok {
		state = &QuestionState{}
		r.QuestionStates[questionID] = state
	}
	return state
}

// ActivityFor возвращает дневную активность за указанный день, создавая
// пустую запись при первом обращении.
func (r *ProgressRecord) ActivityFor(dateKey string) *DayActivity {
	if r.DailyActivity == nil {
		r.DailyActivity = make(map[string]*DayActivity)
	}
	day, ok := r.DailyActivity[dateKey]
	if !ok {
		day = &DayActivity{}
		r.DailyActivity[dateKey] = day
	}
	return day
}

// CompletedLessonIDs возвращает множество идентификаторов завершённых уроков.
func (r *ProgressRecord) CompletedLessonIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(r.Lessons))
	for id := range r.Lessons {
		ids[id] = struct{}{}
	}
	return ids
}

// WrongQuestionIDs возвращает множество вопросов, на которые учащийся
// хотя бы раз ответил неправильно.
func (r *ProgressRecord) WrongQuestionIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	for id, state := range r.QuestionStates {
		if state != nil && state.Wrong > 0 {
			ids[id] = struct{}{}
		}
	}
	return ids
}

// ══════════════════════════════════════════════════════════════════════════════
// USER DATA (единица кеширования и персистентности)
// ══════════════════════════════════════════════════════════════════════════════

// UserData - полное изменяемое состояние одного учащегося.
// Ключом служит UserID, который хранится вне записи.
type UserData struct {
	Profile  Profile        `json:"profile"`
	Progress ProgressRecord `json:"progress"`
}

// NewUserData возвращает состояние нового учащегося.
func NewUserData() *UserData {
	return &UserData{
		Profile:  NewProfile(),
		Progress: NewProgressRecord(),
	}
}

// Reset возвращает состояние к значениям по умолчанию, сохраняя
// принадлежность записи тому же учащемуся.
func (u *UserData) Reset() {
	u.Profile = NewProfile()
	u.Progress = NewProgressRecord()
}

// Normalize чинит nil-карты и выходящие за диапазон значения после
// десериализации записи из внешнего хранилища.
func (u *UserData) Normalize() {
	if u.Profile.Level < DefaultLevel {
		u.Profile.Level = DefaultLevel
	}
	if u.Profile.Lives < 0 {
		u.Profile.Lives = 0
	}
	if u.Profile.Lives > MaxLives {
		u.Profile.Lives = MaxLives
	}
	if u.Profile.Streak < 0 {
		u.Profile.Streak = 0
	}
	if u.Profile.LastActiveDate != "" && !timeutil.IsValidDateKey(u.Profile.LastActiveDate) {
		u.Profile.LastActiveDate = ""
	}
	if u.Progress.Lessons == nil {
		u.Progress.Lessons = make(map[string]LessonCompletion)
	}
	if u.Progress.QuestionStates == nil {
		u.Progress.QuestionStates = make(map[string]*QuestionState)
	}
	if u.Progress.Achievements == nil {
		u.Progress.Achievements = []string{}
	}
	if u.Progress.DailyActivity == nil {
		u.Progress.DailyActivity = make(map[string]*DayActivity)
	}
}

// Clone создаёт глубокую копию записи. Снимки, покидающие блокировку
// хранилища, обязаны быть копиями.
func (u *UserData) Clone() *UserData {
	if u == nil {
		return nil
	}

	clone := &UserData{
		Profile: u.Profile,
		Progress: ProgressRecord{
			Lessons:        make(map[string]LessonCompletion, len(u.Progress.Lessons)),
			QuestionStates: make(map[string]*QuestionState, len(u.Progress.QuestionStates)),
			Achievements:   make([]string, len(u.Progress.Achievements)),
			Statistics:     u.Progress.Statistics,
			DailyActivity:  make(map[string]*DayActivity, len(u.Progress.DailyActivity)),
		},
	}

	if u.Profile.LastHeartRecovery != nil {
		ts := *u.Profile.LastHeartRecovery
		clone.Profile.LastHeartRecovery = &ts
	}
	for id, lesson := range u.Progress.Lessons {
		clone.Progress.Lessons[id] = lesson
	}
	for id, state := range u.Progress.QuestionStates {
		if state == nil {
			continue
		}
		s := *state
		clone.Progress.QuestionStates[id] = &s
	}
	copy(clone.Progress.Achievements, u.Progress.Achievements)
	for key, day := range u.Progress.DailyActivity {
		if day == nil {
			continue
		}
		d := *day
		clone.Progress.DailyActivity[key] = &d
	}

	return clone
}
