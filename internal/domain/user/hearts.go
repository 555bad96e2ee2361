package user

import (
	"github.com/cpa-path/cpa-path-hub/pkg/timeutil"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEART REGENERATION POLICY
// Жизни восстанавливаются лениво: по одной за каждые полные
// HeartRecoveryInterval с момента последнего начисления. Никаких фоновых
// таймеров - политика вызывается в начале операций, зависящих от жизней.
// ══════════════════════════════════════════════════════════════════════════════

// RecoverHearts применяет политику восстановления жизней к профилю на момент
// now и возвращает true, если профиль изменился.
//
// Правила:
//   - при полных жизнях ничего не происходит, отметка времени не трогается;
//   - если восстановление ещё ни разу не запускалось, жизни выдаются
//     полностью и отметка ставится в now (первичный грант);
//   - иначе начисляется floor(elapsed / interval) жизней с потолком MaxLives.
//
// Отметка времени переносится в now только когда начислен хотя бы один тик:
// частичный прогресс до первого тика сохраняется, остаток сверх целых
// тиков при начислении теряется.
//
// Функция тотальна: определена для любого достижимого профиля и никогда
// не возвращает ошибку.
func RecoverHearts(p *Profile, now time.Time) bool {
	if p.HasFullLives() {
		return false
	}

	if p.LastHeartRecovery == nil {
		p.Lives = MaxLives
		ts := now
		p.LastHeartRecovery = &ts
		return true
	}

	elapsed := timeutil.ElapsedMinutes(*p.LastHeartRecovery, now)
	ticks := int(elapsed / HeartRecoveryInterval.Minutes())
	if ticks <= 0 {
		return false
	}

	lives := p.Lives + ticks
	if lives > MaxLives {
		lives = MaxLives
	}
	if lives <= p.Lives {
		return false
	}

	p.Lives = lives
	ts := now
	p.LastHeartRecovery = &ts
	return true
}
