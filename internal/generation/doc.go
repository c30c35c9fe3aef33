// Package generation turns lecture transcripts into study material by sending
// them, together with a prompt template, to a provider.Generator.
//
// There are three generators, one per artifact kind: NotesGenerator,
// QuizGenerator and FlashcardGenerator. Each operation renders one template and
// issues exactly one Generate call. The returned text is passed back verbatim;
// the generators never parse, trim or count what the model wrote.
//
// Templates are configuration. DefaultPrompts returns the built-in set and
// LoadPrompts overlays a YAML file on top of it. Neither writes to disk.
package generation
