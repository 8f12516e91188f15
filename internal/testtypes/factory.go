package testtypes

// Factory creates components through its methods. Each StructA it creates is
// tagged with a sequence number.
type Factory struct {
	Prefix string
	count  int
}

func NewFactory() *Factory {
	return &Factory{Prefix: "factory"}
}

func (f *Factory) NewStructA() *StructA {
	a := &StructA{
		Tag: f.count,
	}
	f.count++

	return a
}

func (f *Factory) NewInterfaceB(a InterfaceA) InterfaceB {
	return &StructB{A: a}
}

func ExpectStructA(count int) []*StructA {
	var s []*StructA
	for i := range count {
		s = append(s, &StructA{Tag: i})
	}
	return s
}
