// Copyright 2025 Zintix Labs
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

package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

type HuntReportRender interface {
	Write(w io.Writer, r *HuntReport) error
}

// Json渲染
type JsonHuntReportRender struct{}

func (jr *JsonHuntReportRender) Write(w io.Writer, r *HuntReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLHuntReportRender struct{}

func (yr *YAMLHuntReportRender) Write(w io.Writer, r *HuntReport) error {
	return forceReadableList(w, r)
}

type UniformityRender interface {
	Write(w io.Writer, u *UniformityReport) error
}

// Json渲染
type JsonUniformityRender struct{}

func (jr *JsonUniformityRender) Write(w io.Writer, u *UniformityReport) error {
	return json.NewEncoder(w).Encode(u)
}

// YAML渲染
type YAMLUniformityRender struct{}

func (yr *YAMLUniformityRender) Write(w io.Writer, u *UniformityReport) error {
	return forceReadableList(w, u)
}

// YAML 內層方法
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	// 最內層的一維陣列輸出成 flow style：[a, b, c]，外層維度維持 block
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		hasChild := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				hasChild = true
			}
			styleReadableSequences(c)
		}
		if !hasChild {
			n.Style = yaml.FlowStyle
		}
	}
}
