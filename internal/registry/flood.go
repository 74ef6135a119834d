package registry

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FloodLevel - степень подтопления в точке наблюдения.
// Пустое значение означает отсутствие данных о подтоплении.
type FloodLevel string

const (
	FloodNone     FloodLevel = ""
	FloodLow      FloodLevel = "low"
	FloodMedium   FloodLevel = "medium"
	FloodHigh     FloodLevel = "high"
	FloodCritical FloodLevel = "critical"
)

// FloodLevels перечисляет уровни по возрастанию тяжести
var FloodLevels = []FloodLevel{FloodLow, FloodMedium, FloodHigh, FloodCritical}

// FloodOrdinals - порядковые номера уровней для сравнения
var FloodOrdinals = map[FloodLevel]int{
	FloodLow:      1,
	FloodMedium:   2,
	FloodHigh:     3,
	FloodCritical: 4,
}

// FloodTexts - отображаемый текст уровней
var FloodTexts = map[FloodLevel]string{
	FloodLow:      "轻度内涝",
	FloodMedium:   "中度内涝",
	FloodHigh:     "严重内涝",
	FloodCritical: "紧急内涝",
}

// Present сообщает, есть ли данные о подтоплении
func (l FloodLevel) Present() bool {
	return l != FloodNone
}

// Valid - пустой уровень или ключ таблицы FloodOrdinals
func (l FloodLevel) Valid() bool {
	if !l.Present() {
		return true
	}
	_, ok := FloodOrdinals[l]
	return ok
}

// Ordinal возвращает порядковый номер уровня; 0 для отсутствующего или неизвестного.
func (l FloodLevel) Ordinal() int {
	return FloodOrdinals[l]
}

// Text возвращает отображаемый текст уровня
func (l FloodLevel) Text() string {
	return FloodTexts[l]
}

// MarshalJSON кодирует отсутствующий уровень как null
func (l FloodLevel) MarshalJSON() ([]byte, error) {
	if !l.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(string(l))
}

// ParseFloodLevel разбирает уровень; пустая строка и "null" дают FloodNone.
func ParseFloodLevel(s string) (FloodLevel, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "null" || s == "none" {
		return FloodNone, nil
	}
	l := FloodLevel(s)
	if !l.Valid() {
		return FloodNone, fmt.Errorf("%w: %q", ErrUnknownFloodLevel, s)
	}
	return l, nil
}

// FloodClass возвращает CSS-класс маркера подтопления.
// Критический уровень при animated получает дополнительный класс анимации.
func FloodClass(l FloodLevel, animated bool) string {
	if !l.Present() {
		return ""
	}
	class := "flood-" + string(l)
	if animated && l == FloodCritical {
		class += " animated"
	}
	return class
}
