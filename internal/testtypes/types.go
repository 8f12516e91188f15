// Package testtypes holds components shared by the tests.
package testtypes

import (
	"context"
	"reflect"
)

var (
	TypeInterfaceA = reflect.TypeFor[InterfaceA]()
	TypeInterfaceB = reflect.TypeFor[InterfaceB]()
	TypeStorage    = reflect.TypeFor[Storage]()
)

// InterfaceA through InterfaceD form a dependency chain, each with a
// different Close signature.
type InterfaceA interface {
	A()
	Close(context.Context) error
}

type InterfaceB interface {
	B()
	Close(context.Context)
}

type InterfaceC interface {
	C()
	Close() error
}

type InterfaceD interface {
	D()
	Close()
}

type StructA struct {
	Tag    any
	Closed int
}

func (*StructA) A() {}
func (a *StructA) Close(context.Context) error {
	a.Closed++
	return nil
}

type StructB struct {
	A      InterfaceA
	Closed int
}

func (*StructB) B() {}
func (b *StructB) Close(context.Context) {
	b.Closed++
}

type StructC struct {
	Closed int
}

func (*StructC) C() {}
func (c *StructC) Close() error {
	c.Closed++
	return nil
}

type StructD struct {
	Closed int
}

func (*StructD) D() {}
func (d *StructD) Close() {
	d.Closed++
}

func NewInterfaceA() InterfaceA {
	return &StructA{}
}

func NewStructAPtr() *StructA {
	return &StructA{}
}

func NewInterfaceB(a InterfaceA) InterfaceB {
	return &StructB{A: a}
}

func NewInterfaceC(InterfaceA, InterfaceB) InterfaceC {
	return &StructC{}
}

func NewInterfaceD(InterfaceA, InterfaceB, InterfaceC) InterfaceD {
	return &StructD{}
}
