package user

import (
	"github.com/cpa-path/cpa-path-hub/pkg/timeutil"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// STREAK POLICY
// Серия - количество последовательных календарных дней с хотя бы одним
// записанным действием. Переход выполняется не более одного раза в день:
// флаг streak_active в дневной активности делает повторные вызовы no-op.
// ══════════════════════════════════════════════════════════════════════════════

// ApplyStreak выполняет дневной переход серии на момент now и возвращает
// true, если переход состоялся (первое действие за этот день).
//
// Правила:
//   - last_active_date пуст: серия становится 1;
//   - last_active_date == вчера: серия увеличивается на 1;
//   - любой другой случай (разрыв >= 2 дней, дата в будущем, мусор):
//     серия сбрасывается в 1.
//
// После перехода last_active_date указывает на сегодня, а дневная запись
// помечается streak_active. Функция тотальна и не возвращает ошибок.
func ApplyStreak(p *Profile, r *ProgressRecord, now time.Time) bool {
	today := timeutil.DateKey(now)
	day := r.ActivityFor(today)
	if day.StreakActive {
		return false
	}
	day.StreakActive = true

	switch p.LastActiveDate {
	case "":
		p.Streak = 1
	case timeutil.YesterdayKey(now):
		p.Streak++
	default:
		p.Streak = 1
	}

	p.LastActiveDate = today
	return true
}
