// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"gopkg.nlang.org/compiler.go/internal/compiler/nl"
	"gopkg.nlang.org/compiler.go/internal/exc"
)

// PluginRequest is written to a backend plugin's stdin as a binary encoded
// Struct of the form {files: [...], parameter: "..."}.
type PluginRequest struct {
	Files     []*nl.File
	Parameter string
}

// GeneratedFile is one output of a backend plugin. Name is relative to the
// output directory.
type GeneratedFile struct {
	Name    string
	Content string
}

// PluginResponse is read from a backend plugin's stdout as a binary encoded
// Struct of the form {files: [{name, content}], error: "..."}.
type PluginResponse struct {
	Files []GeneratedFile
	Error string
}

func EncodePluginRequest(req *PluginRequest) ([]byte, error) {
	files := make(list, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, fileObject(f))
	}
	s, err := structpb.NewStruct(object{"files": files, "parameter": req.Parameter})
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(s)
}

func DecodePluginRequest(b []byte) (*PluginRequest, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(b, s); err != nil {
		return nil, exc.Wrap(exc.Location{}, exc.CodePluginFailure, err)
	}
	d := &decoder{}
	m := s.AsMap()
	req := &PluginRequest{Parameter: d.str(m, "parameter")}
	for _, v := range d.list(m, "files") {
		req.Files = append(req.Files, d.file(d.object(v, "file")))
	}
	if d.err != nil {
		return nil, d.err
	}
	return req, nil
}

func EncodePluginResponse(resp *PluginResponse) ([]byte, error) {
	files := make(list, 0, len(resp.Files))
	for _, f := range resp.Files {
		files = append(files, object{"name": f.Name, "content": f.Content})
	}
	s, err := structpb.NewStruct(object{"files": files, "error": resp.Error})
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{}, err)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(s)
}

func DecodePluginResponse(b []byte) (*PluginResponse, error) {
	s := &structpb.Struct{}
	if err := proto.Unmarshal(b, s); err != nil {
		return nil, exc.Wrap(exc.Location{}, exc.CodePluginFailure, err)
	}
	d := &decoder{}
	m := s.AsMap()
	resp := &PluginResponse{Error: d.str(m, "error")}
	for _, v := range d.list(m, "files") {
		f := d.object(v, "generated file")
		resp.Files = append(resp.Files, GeneratedFile{Name: d.str(f, "name"), Content: d.str(f, "content")})
	}
	if d.err != nil {
		return nil, exc.Wrap(exc.Location{}, exc.CodePluginFailure, d.err)
	}
	return resp, nil
}

// RunPlugin executes a backend plugin with the request on stdin and decodes
// its response. A non-empty response error is returned as a plugin failure.
func RunPlugin(ctx context.Context, executable string, req *PluginRequest) (*PluginResponse, error) {
	requestBytes, err := EncodePluginRequest(req)
	if err != nil {
		return nil, err
	}

	var pluginOut bytes.Buffer
	var pluginErr bytes.Buffer

	cmd := exec.CommandContext(ctx, executable)
	cmd.Stdin = bytes.NewReader(requestBytes)
	cmd.Stdout = &pluginOut
	cmd.Stderr = &pluginErr

	if err := cmd.Run(); err != nil {
		message := strings.TrimSpace(pluginErr.String())
		if message == "" {
			message = err.Error()
		}
		return nil, exc.New(exc.Location{URI: executable}, exc.CodePluginFailure, fmt.Sprintf("plugin failed: %s", message))
	}

	resp, err := DecodePluginResponse(pluginOut.Bytes())
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return resp, exc.New(exc.Location{URI: executable}, exc.CodePluginFailure, resp.Error)
	}
	return resp, nil
}
