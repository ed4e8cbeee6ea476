// Package seed loads users and their folders, tags and notes from a YAML file.
package seed

import (
	"context"
	"fmt"
	"io"
	"os"

	"noteful/internal/auth"
	"noteful/internal/models"
	"noteful/internal/store"

	"gopkg.in/yaml.v3"
)

// File is the root of a seed document.
type File struct {
	Users []User `yaml:"users"`
}

// User is a seeded account. Folders, tags and notes belong to it, and notes
// refer to folders and tags by name.
type User struct {
	Username string   `yaml:"username"`
	Fullname string   `yaml:"fullname"`
	Password string   `yaml:"password"`
	Folders  []string `yaml:"folders"`
	Tags     []string `yaml:"tags"`
	Notes    []Note   `yaml:"notes"`
}

type Note struct {
	Title   string   `yaml:"title"`
	Content string   `yaml:"content"`
	Folder  string   `yaml:"folder"`
	Tags    []string `yaml:"tags"`
}

// Summary counts what Run inserted.
type Summary struct {
	Users, Folders, Tags, Notes int
}

// Load decodes a seed document, rejecting unknown keys.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return &f, nil
}

// LoadFile opens path and decodes it with Load.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Load(fh)
}

// Run inserts every user in f together with their folders, tags and notes.
// It stops at the first failure; rows written before it are kept.
func Run(ctx context.Context, s store.Store, hasher auth.Hasher, f *File) (Summary, error) {
	var sum Summary
	for _, su := range f.Users {
		if err := seedUser(ctx, s, hasher, su, &sum); err != nil {
			return sum, fmt.Errorf("seed user %q: %w", su.Username, err)
		}
	}
	return sum, nil
}

func seedUser(ctx context.Context, s store.Store, hasher auth.Hasher, su User, sum *Summary) error {
	hash, err := hasher.Hash(su.Password)
	if err != nil {
		return err
	}
	u := &models.User{Username: su.Username, Fullname: su.Fullname, PasswordHash: hash}
	if err := s.CreateUser(ctx, u); err != nil {
		return err
	}
	sum.Users++

	folders := make(map[string]string, len(su.Folders))
	for _, name := range su.Folders {
		folder := &models.Folder{Name: name, UserID: u.ID}
		if err := s.CreateFolder(ctx, folder); err != nil {
			return fmt.Errorf("folder %q: %w", name, err)
		}
		folders[name] = folder.ID
		sum.Folders++
	}

	tags := make(map[string]string, len(su.Tags))
	for _, name := range su.Tags {
		tag := &models.Tag{Name: name, UserID: u.ID}
		if err := s.CreateTag(ctx, tag); err != nil {
			return fmt.Errorf("tag %q: %w", name, err)
		}
		tags[name] = tag.ID
		sum.Tags++
	}

	for _, sn := range su.Notes {
		note := &models.Note{Title: sn.Title, Content: sn.Content, UserID: u.ID, TagIDs: []string{}}
		if sn.Folder != "" {
			id, ok := folders[sn.Folder]
			if !ok {
				return fmt.Errorf("note %q: unknown folder %q", sn.Title, sn.Folder)
			}
			note.FolderID = id
		}
		for _, name := range sn.Tags {
			id, ok := tags[name]
			if !ok {
				return fmt.Errorf("note %q: unknown tag %q", sn.Title, name)
			}
			note.TagIDs = append(note.TagIDs, id)
		}
		if err := s.CreateNote(ctx, note); err != nil {
			return fmt.Errorf("note %q: %w", sn.Title, err)
		}
		sum.Notes++
	}
	return nil
}
