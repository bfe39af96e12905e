package server

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	mdwerror "github.com/msto63/dashscript/foundation/core/error"
)

// EditorServiceName is the fully qualified gRPC service name
const EditorServiceName = "dashscript.v1.Editor"

// ApplyMethod is the full method name of Editor/Apply
const ApplyMethod = "/" + EditorServiceName + "/Apply"

// EditorServer is the gRPC face of Editor. Messages are google.protobuf.Struct
// values carrying the JSON form of ApplyRequest and ApplyResponse.
type EditorServer interface {
	Apply(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// EditorServiceDesc describes the Editor service for registration
var EditorServiceDesc = grpc.ServiceDesc{
	ServiceName: EditorServiceName,
	HandlerType: (*EditorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Apply",
			Handler:    applyHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dashscript/v1/editor.proto",
}

// RegisterEditorServer registers srv on s
func RegisterEditorServer(s grpc.ServiceRegistrar, srv EditorServer) {
	s.RegisterService(&EditorServiceDesc, srv)
}

func applyHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EditorServer).Apply(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: ApplyMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EditorServer).Apply(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// GRPCEditor adapts an Editor to EditorServer
type GRPCEditor struct {
	editor *Editor
}

// NewGRPCEditor creates the gRPC adapter
func NewGRPCEditor(editor *Editor) *GRPCEditor {
	return &GRPCEditor{editor: editor}
}

// Apply decodes the request struct, runs it and encodes the response
func (g *GRPCEditor) Apply(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ApplyRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	resp, err := g.editor.Apply(ctx, req)
	if err != nil {
		return nil, err
	}
	return toStruct(resp)
}

// EditorClient calls a remote Editor
type EditorClient struct {
	cc grpc.ClientConnInterface
}

// NewEditorClient creates a client on cc
func NewEditorClient(cc grpc.ClientConnInterface) *EditorClient {
	return &EditorClient{cc: cc}
}

// Apply runs req on the remote editor
func (c *EditorClient) Apply(ctx context.Context, req ApplyRequest, opts ...grpc.CallOption) (*ApplyResponse, error) {
	in, err := toStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ApplyMethod, in, out, opts...); err != nil {
		return nil, err
	}
	var resp ApplyResponse
	if err := fromStruct(out, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, invalidMessage(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, invalidMessage(err)
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, invalidMessage(err)
	}
	return s, nil
}

func fromStruct(s *structpb.Struct, v interface{}) error {
	raw, err := s.MarshalJSON()
	if err != nil {
		return invalidMessage(err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return invalidMessage(err)
	}
	return nil
}

func invalidMessage(err error) error {
	return mdwerror.Wrap(err, "invalid editor message").
		WithCode(mdwerror.CodeInvalidInput).
		WithOperation("grpc.Editor")
}
