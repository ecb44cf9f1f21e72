package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/msto63/cmdscript/foundation/cmdlang"
	"github.com/msto63/cmdscript/foundation/cmdlang/registry"
	mdwerror "github.com/msto63/cmdscript/foundation/core/error"
	mdwstringx "github.com/msto63/cmdscript/foundation/utils/stringx"
	mdwtimex "github.com/msto63/cmdscript/foundation/utils/timex"
)

// NamespaceName is the builtin namespace serving the transcript
const NamespaceName = "history"

const defaultListLimit = 20

// Namespace returns the builtin "history" namespace backed by store
func Namespace(store Store) *registry.NamespaceDefinition {
	one := float64(1)
	return &registry.NamespaceDefinition{
		Name:        NamespaceName,
		Description: "Transcript of dispatched commands",
		Commands: []*registry.CommandDefinition{
			{
				Name:        "list",
				Description: "Show recently dispatched commands, newest first",
				Arguments: []*registry.ArgumentDefinition{
					{Name: "limit", Type: "integer", Min: &one, Default: strconv.Itoa(defaultListLimit), Description: "Number of entries"},
					{Name: "session", Description: "Only entries of this session ID"},
					{Name: "status", Values: []string{cmdlang.StatusOK, cmdlang.StatusFailed}, Description: "Only entries with this status"},
				},
				Handler: func(ctx context.Context, args map[string]string) (interface{}, error) {
					return list(ctx, store, args)
				},
			},
			{
				Name:        "stats",
				Description: "Count recorded commands",
				Handler: func(ctx context.Context, _ map[string]string) (interface{}, error) {
					stats, err := store.Stats(ctx)
					if err != nil {
						return nil, err
					}
					return fmt.Sprintf("%d commands, %d failed, %d sessions", stats.Total, stats.Failed, stats.Sessions), nil
				},
			},
			{
				Name:        "prune",
				Description: "Delete entries older than the given age",
				Arguments: []*registry.ArgumentDefinition{
					{Name: "age", Required: true, Description: "Minimum age of deleted entries, e.g. 72h"},
				},
				Handler: func(ctx context.Context, args map[string]string) (interface{}, error) {
					age, err := time.ParseDuration(args["age"])
					if err != nil || age <= 0 {
						return nil, mdwerror.New("age must be a positive duration such as 72h").
							WithCode(mdwerror.CodeInvalidInput).
							WithOperation("history.prune").
							WithDetail("age", args["age"])
					}
					n, err := store.Prune(ctx, age)
					if err != nil {
						return nil, err
					}
					return fmt.Sprintf("%d entries deleted", n), nil
				},
			},
			{
				Name:        "clear",
				Description: "Delete the whole transcript",
				Handler: func(ctx context.Context, _ map[string]string) (interface{}, error) {
					n, err := store.Clear(ctx)
					if err != nil {
						return nil, err
					}
					return fmt.Sprintf("%d entries deleted", n), nil
				},
			},
		},
	}
}

func list(ctx context.Context, store Store, args map[string]string) (string, error) {
	limit := defaultListLimit
	if v, err := strconv.Atoi(args["limit"]); err == nil && v > 0 {
		limit = v
	}
	entries, err := store.List(ctx, Filter{
		SessionID: args["session"],
		Status:    strings.ToLower(args["status"]),
		Limit:     limit,
	})
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "No commands recorded", nil
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := fmt.Sprintf("%s  %s  %s  %s",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			mdwstringx.PadRight(e.Status, len(cmdlang.StatusFailed)),
			mdwstringx.PadRight(mdwtimex.FormatDurationCompact(e.Duration), 8),
			e.Line)
		if e.Error != "" {
			line += "  (" + mdwstringx.Truncate(e.Error, 80, "...") + ")"
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
