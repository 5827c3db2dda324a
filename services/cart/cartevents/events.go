package cartevents

const (
	TopicName        = "cart"
	cartModifiedName = TopicName + ".modified"
)

type CartModified struct {
	CartUID      string
	TotalInCents int
	ItemCount    int
}

func (e CartModified) GetEventTypeName() string {
	return cartModifiedName
}

func (e CartModified) GetAggregateName() string {
	return e.CartUID
}
