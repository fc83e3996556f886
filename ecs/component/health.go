package component

type Health struct {
	Current float32
	Max     float32
}

func (h Health) Dead() bool {
	return h.Current <= 0
}

var HealthComponent = NewComponent[Health]()
