package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/milk9111/pinball/assets"
	"github.com/milk9111/pinball/units"
	"github.com/milk9111/pinball/vpx"
)

type Summary struct {
	File      string         `yaml:"file"`
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Author    string         `yaml:"author,omitempty"`
	Version   int32          `yaml:"version"`
	WidthM    float64        `yaml:"width_m"`
	DepthM    float64        `yaml:"depth_m"`
	Kinds     map[string]int `yaml:"kinds"`
	Materials []string       `yaml:"materials,omitempty"`
	Images    []string       `yaml:"images,omitempty"`
	Sounds    []string       `yaml:"sounds,omitempty"`
	Items     []Item         `yaml:"items,omitempty"`
	Problems  []string       `yaml:"problems,omitempty"`
	Decoded   *Decoded       `yaml:"decoded,omitempty"`
}

type Item struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

type Decoded struct {
	Images int `yaml:"images"`
	Sounds int `yaml:"sounds"`
	Meshes int `yaml:"meshes"`
}

// Summarize collects the table overview. Items are listed only when asked
// for.
func Summarize(path string, t *vpx.Table, items bool) Summary {
	s := Summary{
		File:    path,
		ID:      assets.TableID(path),
		Name:    t.Info.Name,
		Author:  t.Info.Author,
		Version: t.Version,
		WidthM:  units.VPUToM(t.Bounds.Width()),
		DepthM:  units.VPUToM(t.Bounds.Depth()),
		Kinds:   make(map[string]int),
	}
	for _, it := range t.GameItems {
		s.Kinds[it.Kind().String()]++
		if items {
			s.Items = append(s.Items, Item{Name: it.ItemName(), Kind: it.Kind().String()})
		}
	}
	for _, m := range t.Materials {
		s.Materials = append(s.Materials, m.Name)
	}
	for _, img := range t.Images {
		s.Images = append(s.Images, img.Name)
	}
	for _, snd := range t.Sounds {
		s.Sounds = append(s.Sounds, snd.Name)
	}
	return s
}

func (s Summary) WriteText(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "file\t%s\n", s.File)
	fmt.Fprintf(tw, "id\t%s\n", s.ID)
	fmt.Fprintf(tw, "name\t%s\n", s.Name)
	if s.Author != "" {
		fmt.Fprintf(tw, "author\t%s\n", s.Author)
	}
	fmt.Fprintf(tw, "version\t%d\n", s.Version)
	fmt.Fprintf(tw, "size\t%.3f x %.3f m\n", s.WidthM, s.DepthM)
	fmt.Fprintf(tw, "materials\t%d\n", len(s.Materials))
	fmt.Fprintf(tw, "images\t%d\n", len(s.Images))
	fmt.Fprintf(tw, "sounds\t%d\n", len(s.Sounds))

	kinds := make([]string, 0, len(s.Kinds))
	for k := range s.Kinds {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(tw, "items/%s\t%d\n", k, s.Kinds[k])
	}
	if s.Decoded != nil {
		fmt.Fprintf(tw, "decoded\t%d images, %d sounds, %d meshes\n", s.Decoded.Images, s.Decoded.Sounds, s.Decoded.Meshes)
	}
	for _, it := range s.Items {
		fmt.Fprintf(tw, "  %s\t%s\n", it.Kind, it.Name)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, p := range s.Problems {
		if _, err := fmt.Fprintf(out, "problem: %s\n", p); err != nil {
			return err
		}
	}
	return nil
}
