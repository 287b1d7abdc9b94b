package trace

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"path/filepath"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/giucamp/djup/internal/discrim"
)

func edgeKindFromInt(v int) discrim.EdgeKind { return discrim.EdgeKind(v) }

// stepServiceProto is the schema for the step-streaming service,
// compiled at startup via protoreflect's protoparse rather than
// generated .pb.go code — the same dynamic-descriptor approach the
// teacher's lib/grpc builtins use to let a host script register an
// arbitrary service without a codegen step
// (internal/evaluator/builtins_grpc.go builtinGrpcLoadProto /
// builtinGrpcRegister).
const stepServiceProto = `
syntax = "proto3";
package djup.trace;

message TailRequest {
	string run_id = 1;
}

message StepMessage {
	int64  seq         = 1;
	string edge_kind   = 2;
	bool   reached     = 3;
	uint32 pattern_id  = 4;
	bool   has_pattern = 5;
}

service StepService {
	rpc TailSteps(TailRequest) returns (stream StepMessage);
}
`

// StepServer exposes a namespace's recorded matching steps over gRPC
// (spec.md §7, "optional step-streaming server"). It is entirely
// separate from the synchronous matching core (spec.md §5): nothing
// here runs unless a caller explicitly starts it.
type StepServer struct {
	artifactDir string
	grpcServer  *grpc.Server
	serviceDesc *desc.ServiceDescriptor
}

// NewStepServer parses the embedded proto schema and builds a gRPC
// server ready to serve TailSteps requests against SQLite artifacts
// under artifactDir.
func NewStepServer(artifactDir string) (*StepServer, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{
			"step_service.proto": stepServiceProto,
		}),
	}
	fds, err := parser.ParseFiles("step_service.proto")
	if err != nil {
		return nil, fmt.Errorf("trace: parsing step service schema: %w", err)
	}
	sd := fds[0].FindService("djup.trace.StepService")
	if sd == nil {
		return nil, fmt.Errorf("trace: step service descriptor not found")
	}
	s := &StepServer{artifactDir: artifactDir, serviceDesc: sd}

	md := sd.FindMethodByName("TailSteps")
	handler := &tailHandler{server: s, md: md}
	grpcServer := grpc.NewServer()
	grpcServer.RegisterService(&grpc.ServiceDesc{
		ServiceName: sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Methods:     []grpc.MethodDesc{},
		Streams: []grpc.StreamDesc{{
			StreamName: "TailSteps",
			Handler: func(srv interface{}, stream grpc.ServerStream) error {
				return handler.handle(stream)
			},
			ServerStreams: true,
		}},
		Metadata: sd.GetFile().GetName(),
	}, handler)
	s.grpcServer = grpcServer
	return s, nil
}

// Serve blocks accepting connections on lis; callers typically run it
// in its own goroutine.
func (s *StepServer) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// Stop gracefully stops the gRPC server.
func (s *StepServer) Stop() { s.grpcServer.GracefulStop() }

type tailHandler struct {
	server *StepServer
	md     *desc.MethodDescriptor
}

func (h *tailHandler) handle(stream grpc.ServerStream) error {
	req := dynamic.NewMessage(h.md.GetInputType())
	if err := stream.RecvMsg(req); err != nil {
		return err
	}
	runID, _ := req.TryGetFieldByName("run_id")
	runIDStr, _ := runID.(string)

	dbPath := filepath.Join(h.server.artifactDir, runIDStr+".sqlite")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("trace: opening artifact %s: %w", dbPath, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(context.Background(),
		`SELECT seq, edge_kind, reached, pattern_id FROM steps ORDER BY seq`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var seq int64
		var edgeKind int
		var reached int
		var patternID sql.NullInt64
		if err := rows.Scan(&seq, &edgeKind, &reached, &patternID); err != nil {
			return err
		}
		msg := dynamic.NewMessage(h.md.GetOutputType())
		msg.SetFieldByName("seq", seq)
		msg.SetFieldByName("edge_kind", edgeKindName(edgeKindFromInt(edgeKind)))
		msg.SetFieldByName("reached", reached != 0)
		if patternID.Valid {
			msg.SetFieldByName("pattern_id", uint32(patternID.Int64))
			msg.SetFieldByName("has_pattern", true)
		}
		if err := stream.SendMsg(msg); err != nil {
			return err
		}
	}
	return rows.Err()
}
