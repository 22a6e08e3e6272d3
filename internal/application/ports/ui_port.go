package ports

// NoticeLevel severidad de una notificación al usuario.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice mensaje que se muestra al usuario de forma bloqueante (equivalente a un alert).
type Notice struct {
	Level   NoticeLevel
	Message string
}

// Notifier define el puerto de salida para notificar al usuario.
// La CLI imprime en la terminal; los tests registran los avisos recibidos.
type Notifier interface {
	Notify(n Notice)
}

// Confirmer define el puerto de salida para confirmaciones interactivas (equivalente a confirm()).
// Devuelve true si el usuario acepta.
type Confirmer interface {
	Confirm(prompt string) bool
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// ConfirmerFunc adapta una función a Confirmer.
type ConfirmerFunc func(prompt string) bool

func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm acepta cualquier confirmación (modo no interactivo, --yes).
var AlwaysConfirm Confirmer = ConfirmerFunc(func(string) bool { return true })

// Discard ignora las notificaciones.
var Discard Notifier = NotifierFunc(func(Notice) {})
