// Package repository defines the persistence contracts consumed by the
// identity resolution engine, together with the sentinel errors drivers
// must translate their native failures into.
package repository
