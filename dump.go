package yaml

import (
	"fmt"

	"github.com/djoezeke/myyaml/internal/document"
	"github.com/djoezeke/myyaml/internal/emitter"
	"github.com/djoezeke/myyaml/internal/resolve"
	"github.com/djoezeke/myyaml/internal/yamlh"
)

// Dump writes one whole document to the output stream. The stream is
// opened implicitly if Open has not been called; the caller still closes
// the stream with Close once all documents are dumped.
//
// Nodes referenced more than once are written with a generated anchor on
// their first occurrence and as aliases afterwards.
func (e *Emitter) Dump(doc *Document) error {
	if e.err != nil {
		return e.err
	}
	if err := e.dump(doc); err != nil {
		e.err = err
		return err
	}
	return nil
}

func (e *Emitter) dump(doc *Document) error {
	if !e.opened {
		if err := e.emitter.Open(); err != nil {
			return err
		}
		e.opened = true
	}

	d := &dumper{
		doc:     doc,
		refs:    make(map[int]int),
		anchors: make(map[int][]byte),
		emitted: make(map[int]bool),
	}
	if doc.GetRootNode() != nil {
		d.countRefs(1)
	}

	err := e.emitter.Emit(documentStartEvent(doc.Version, doc.TagDirectives, doc.StartImplicit), false)
	if err != nil {
		return err
	}
	if doc.GetRootNode() != nil {
		if err := d.emitNode(e.emitter, 1); err != nil {
			return err
		}
	} else {
		// An empty document still needs a root to satisfy the event
		// grammar; an empty plain scalar round-trips to nothing.
		err := e.emitter.Emit(scalarEvent(nil, nil, []byte{}, true, false, yamlh.PLAIN_SCALAR_STYLE), false)
		if err != nil {
			return err
		}
	}
	return e.emitter.Emit(documentEndEvent(doc.EndImplicit), false)
}

// dumper tracks per-document anchor bookkeeping while a document is
// serialized into events.
type dumper struct {
	doc     *Document
	refs    map[int]int
	anchors map[int][]byte
	emitted map[int]bool

	lastAnchorID int
}

// countRefs walks the tree once, counting incoming references per node.
// A node gets an anchor name the moment its second reference is found,
// so anchor numbering follows document order.
func (d *dumper) countRefs(id int) {
	d.refs[id]++
	if d.refs[id] > 1 {
		if _, ok := d.anchors[id]; !ok {
			d.lastAnchorID++
			d.anchors[id] = []byte(fmt.Sprintf("id%03d", d.lastAnchorID))
		}
		return
	}
	node := d.doc.GetNode(id)
	switch node.Kind {
	case document.SequenceNode:
		for _, item := range node.Items {
			d.countRefs(item)
		}
	case document.MappingNode:
		for _, pair := range node.Pairs {
			d.countRefs(pair.Key)
			d.countRefs(pair.Value)
		}
	}
}

func (d *dumper) emitNode(e *emitter.Emitter, id int) error {
	anchor := d.anchors[id]
	if anchor != nil && d.emitted[id] {
		return e.Emit(aliasEvent(anchor), false)
	}
	d.emitted[id] = true

	node := d.doc.GetNode(id)
	switch node.Kind {
	case document.ScalarNode:
		plain, quoted := scalarImplicit(node.Tag, node.Value)
		tag := []byte(node.Tag)
		return e.Emit(scalarEvent(anchor, tag, node.Value, plain, quoted, yamlh.YamlScalarStyle(node.Style)), false)

	case document.SequenceNode:
		implicit := node.Tag == "" || node.Tag == yamlh.DEFAULT_SEQUENCE_TAG
		err := e.Emit(sequenceStartEvent(anchor, []byte(node.Tag), implicit, yamlh.YamlSequenceStyle(node.Style)), false)
		if err != nil {
			return err
		}
		for _, item := range node.Items {
			if err := d.emitNode(e, item); err != nil {
				return err
			}
		}
		return e.Emit(sequenceEndEvent(), false)

	case document.MappingNode:
		implicit := node.Tag == "" || node.Tag == yamlh.DEFAULT_MAPPING_TAG
		err := e.Emit(mappingStartEvent(anchor, []byte(node.Tag), implicit, yamlh.YamlMappingStyle(node.Style)), false)
		if err != nil {
			return err
		}
		for _, pair := range node.Pairs {
			if err := d.emitNode(e, pair.Key); err != nil {
				return err
			}
			if err := d.emitNode(e, pair.Value); err != nil {
				return err
			}
		}
		return e.Emit(mappingEndEvent(), false)
	}
	return yamlh.NewEmitterError("cannot dump a node of unknown kind")
}

// scalarImplicit decides whether the node's tag may be left off a plain
// or a quoted rendering. The !!str tag is implicit either way; any other
// tag is plain-implicit only when the value resolves to it untagged.
func scalarImplicit(tag string, value []byte) (plain, quoted bool) {
	if tag == "" || tag == yamlh.DEFAULT_SCALAR_TAG {
		return true, true
	}
	rtag, _, err := resolve.Resolve("", string(value))
	if err == nil && resolve.LongTag(rtag) == tag {
		return true, false
	}
	return false, false
}
