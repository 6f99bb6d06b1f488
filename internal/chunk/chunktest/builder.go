// Package chunktest builds 3DS chunk buffers for tests.
package chunktest

import "encoding/binary"

// Node is a chunk to be encoded: either raw body bytes or child chunks.
type Node struct {
	ID       uint16
	Body     []byte
	Children []Node

	length *uint32
}

// WithLength returns a copy of n whose length field is forced to l,
// including lengths shorter than the header.
func (n Node) WithLength(l uint32) Node {
	n.length = &l
	return n
}

// Chunk returns a group node.
func Chunk(id uint16, children ...Node) Node {
	return Node{ID: id, Children: children}
}

// Raw returns a leaf node with an opaque body.
func Raw(id uint16, body []byte) Node {
	return Node{ID: id, Body: body}
}

// String returns a leaf node whose body is s followed by a null byte.
func String(id uint16, s string) Node {
	return Node{ID: id, Body: append([]byte(s), 0)}
}

// Bytes encodes n and its children.
func (n Node) Bytes() []byte {
	body := append([]byte(nil), n.Body...)
	for _, c := range n.Children {
		body = append(body, c.Bytes()...)
	}
	length := uint32(6 + len(body))
	if n.length != nil {
		length = *n.length
	}
	out := make([]byte, 6, 6+len(body))
	binary.LittleEndian.PutUint16(out[0:], n.ID)
	binary.LittleEndian.PutUint32(out[2:], length)
	return append(out, body...)
}

// Build encodes nodes back to back.
func Build(nodes ...Node) []byte {
	var out []byte
	for _, n := range nodes {
		out = append(out, n.Bytes()...)
	}
	return out
}
