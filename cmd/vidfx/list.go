package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/keagan/vidfx/internal/builtin"
	"github.com/keagan/vidfx/internal/registry"
)

var listCmd = &cobra.Command{
	Use:       "list [filters|effects|transitions]",
	Short:     "List available operations and their parameters",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"filters", "effects", "transitions"},
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := parseCategory(args[0])
		if err != nil {
			return err
		}
		reg, err := builtin.Registry()
		if err != nil {
			return err
		}

		descriptors := reg.Descriptors(category)
		rows := make([][]string, 0, len(descriptors))
		for _, d := range descriptors {
			rows = append(rows, []string{d.Name, d.Summary, formatParams(d.Params)})
		}

		title := cases.Title(language.Und).String(args[0])
		fmt.Fprintln(cmd.OutOrStdout(), renderTable(title, []string{"Name", "Summary", "Parameters"}, rows))
		return nil
	},
}

// parseCategory accepts the plural and singular forms.
func parseCategory(s string) (registry.Category, error) {
	c := registry.Category(strings.TrimSuffix(strings.ToLower(s), "s"))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q (use filters, effects or transitions)", s)
	}
	return c, nil
}

func formatParams(params []registry.Param) string {
	if len(params) == 0 {
		return "-"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s=%s (%s, %s..%s)", p.Name, formatNumber(p.Default), p.Kind,
			formatNumber(p.Min), formatNumber(p.Max))
	}
	return strings.Join(parts, "\n")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
