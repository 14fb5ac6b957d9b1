package scheduling

// Reason код отказа валидации. Движок никогда не возвращает ошибки:
// каждый вызов завершается решением с кодом причины, а сопоставление
// кода с пользовательским текстом выполняет вызывающая сторона.
type Reason string

const (
	ReasonMissingEmployee         Reason = "MissingEmployee"
	ReasonInvalidRange            Reason = "InvalidRange"
	ReasonClosedDay               Reason = "ClosedDay"
	ReasonOutsideWorkingHours     Reason = "OutsideWorkingHours"
	ReasonInsideBreak             Reason = "InsideBreak"
	ReasonOnTimeOff               Reason = "OnTimeOff"
	ReasonOverlapsExistingBooking Reason = "OverlapsExistingBooking"
	ReasonNoEligibleEmployee      Reason = "NoEligibleEmployee"
)

// Decision результат валидации кандидата
type Decision struct {
	OK     bool
	Reason Reason
}

// Accept решение "принять"
func Accept() Decision {
	return Decision{OK: true}
}

// Reject решение "отклонить" с кодом причины
func Reject(reason Reason) Decision {
	return Decision{OK: false, Reason: reason}
}
