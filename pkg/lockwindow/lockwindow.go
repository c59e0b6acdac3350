package lockwindow

import "time"

// LockOffset define quanto tempo antes do início do evento os picks fecham.
const LockOffset = 10 * time.Minute

// IsLocked informa se o evento não aceita mais picks.
// Fecha exatamente em start − 10min (limite inclusivo); início desconhecido
// (zero) bloqueia por segurança.
//
// Função pura compartilhada entre o enforcement da API e o countdown do
// cliente: os dois lados precisam calcular o mesmo limite.
func IsLocked(now, startsAt time.Time) bool {
	if startsAt.IsZero() {
		return true
	}
	return !now.Before(startsAt.Add(-LockOffset))
}

// IsPast informa se o evento já começou.
func IsPast(now, startsAt time.Time) bool {
	return now.After(startsAt)
}

// LocksAt retorna o instante em que os picks de um evento fecham.
func LocksAt(startsAt time.Time) time.Time {
	return startsAt.Add(-LockOffset)
}
