package main

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/booksage/kgforager/internal/graph"
)

var errWriteFailed = errors.New("graph store rejected the write; see log for details")

var (
	intLiteral   = regexp.MustCompile(`^-?(0|[1-9][0-9]*)$`)
	floatLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)\.[0-9]+$`)
)

func newGraphCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Create nodes and relationships or run queries",
	}
	cmd.AddCommand(newCreateNodeCmd(a), newCreateRelationshipCmd(a), newQueryCmd(a))
	return cmd
}

func newCreateNodeCmd(a *app) *cobra.Command {
	var (
		label string
		props []string
	)

	cmd := &cobra.Command{
		Use:   "create-node",
		Short: "Create a node and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			properties, err := parseKeyValues(props)
			if err != nil {
				return err
			}
			return a.withEngine(cmd.Context(), func(ctx context.Context, e *graph.Engine) error {
				id, ok := e.CreateNode(ctx, label, properties)
				if !ok {
					return errWriteFailed
				}
				return a.writeJSON(map[string]int64{"id": id})
			})
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "node label")
	cmd.Flags().StringArrayVar(&props, "prop", nil, "property as key=value (repeatable); plain integers, decimals and true/false are typed, all else is a string")
	_ = cmd.MarkFlagRequired("label")
	return cmd
}

func newCreateRelationshipCmd(a *app) *cobra.Command {
	var (
		start, end int64
		relType    string
	)

	cmd := &cobra.Command{
		Use:   "create-relationship",
		Short: "Create a relationship between two node ids and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(ctx context.Context, e *graph.Engine) error {
				id, ok := e.CreateRelationship(ctx, start, end, relType)
				if !ok {
					return errWriteFailed
				}
				return a.writeJSON(map[string]int64{"id": id})
			})
		},
	}

	cmd.Flags().Int64Var(&start, "start", 0, "start node id")
	cmd.Flags().Int64Var(&end, "end", 0, "end node id")
	cmd.Flags().StringVar(&relType, "type", "", "relationship type")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newQueryCmd(a *app) *cobra.Command {
	var (
		cypher string
		params []string
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run a read query and print the rows as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			parameters, err := parseKeyValues(params)
			if err != nil {
				return err
			}
			return a.withEngine(cmd.Context(), func(ctx context.Context, e *graph.Engine) error {
				records, err := e.Query(ctx, cypher, parameters)
				if err != nil {
					return err
				}
				if records == nil {
					records = []graph.Record{}
				}
				return a.writeJSON(records)
			})
		},
	}

	cmd.Flags().StringVar(&cypher, "cypher", "", "query text")
	cmd.Flags().StringArrayVar(&params, "param", nil, "parameter as key=value (repeatable); typed like --prop on create-node")
	_ = cmd.MarkFlagRequired("cypher")
	return cmd
}

func (a *app) withEngine(ctx context.Context, fn func(ctx context.Context, e *graph.Engine) error) error {
	driver, err := a.openDriver(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := driver.Close(ctx); err != nil {
			a.logger.Warn("failed to close graph driver", zap.Error(err))
		}
	}()

	return fn(ctx, graph.NewEngine(driver, a.logger))
}

// parseKeyValues turns key=value pairs into a map. Plain decimal integers
// (no leading zeros), plain decimal floats like 2.5, and the words true and
// false keep that type. Anything else, including 007, 1e3 and NaN, stays a
// string.
func parseKeyValues(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !found || key == "" {
			return nil, fmt.Errorf("invalid key=value pair %q", pair)
		}
		out[key] = parseValue(value)
	}
	return out, nil
}

func parseValue(s string) any {
	switch {
	case intLiteral.MatchString(s):
		// Out-of-range integers stay strings.
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
	case floatLiteral.MatchString(s):
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case s == "true":
		return true
	case s == "false":
		return false
	}
	return s
}
