package repl

import (
	"context"
	"fmt"
	"strings"

	"github.com/DuongTienDung77/Ultra8K/internal/gallery"
	"github.com/DuongTienDung77/Ultra8K/internal/keys"
	"github.com/DuongTienDung77/Ultra8K/internal/preset"
	"github.com/DuongTienDung77/Ultra8K/internal/security"
	"github.com/DuongTienDung77/Ultra8K/internal/studio"
	"github.com/DuongTienDung77/Ultra8K/pkg/models"
)

type Command interface {
	Name() string
	Aliases() []string
	Description() string
	Usage() string
	Execute(ctx context.Context, r *REPL, args []string) error
}

func allCommands() []Command {
	return []Command{
		&PromptCommand{},
		&ShotCommand{},
		&PresetCommand{},
		&RatioCommand{},
		&ResolutionCommand{},
		&FormatCommand{},
		&ModelCommand{},
		&RefCommand{},
		&UnrefCommand{},
		&DNACommand{},
		&PositiveCommand{},
		&NegativeCommand{},
		&GenerateCommand{},
		&RetryCommand{},
		&BeautifyCommand{},
		&PortraitCommand{},
		&PostCommand{},
		&DeletePortraitCommand{},
		&RateCommand{},
		&SaveCommand{},
		&ShowCommand{},
		&GalleryCommand{},
		&StatusCommand{},
		&ResetCommand{},
		&KeyCommand{},
		&HelpCommand{},
		&QuitCommand{},
	}
}

func (r *REPL) registerCommands() {
	for _, cmd := range allCommands() {
		r.commands[cmd.Name()] = cmd
		for _, alias := range cmd.Aliases() {
			r.commands[alias] = cmd
		}
	}
}

// PromptCommand sets the main description
type PromptCommand struct{}

func (c *PromptCommand) Name() string        { return "prompt" }
func (c *PromptCommand) Aliases() []string   { return []string{"p"} }
func (c *PromptCommand) Description() string { return "Get or set the main description" }
func (c *PromptCommand) Usage() string       { return "prompt [text]" }

func (c *PromptCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Prompt: %q\n", r.studio.State().MainText)
		return nil
	}
	text := strings.Join(args, " ")
	r.studio.Update(func(s studio.State) studio.State { return s.SetMainText(text) })
	return nil
}

// ShotCommand picks the framing prepended to the description
type ShotCommand struct{}

func (c *ShotCommand) Name() string        { return "shot" }
func (c *ShotCommand) Aliases() []string   { return nil }
func (c *ShotCommand) Description() string { return "List shot types or pick one ('none' clears it)" }
func (c *ShotCommand) Usage() string       { return "shot [label|value|none]" }

func (c *ShotCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		current := r.studio.State().ShotType
		for _, st := range preset.ShotTypes() {
			marker := "  "
			if st.Value == current {
				marker = "> "
			}
			fmt.Fprintf(r.out, "%s%-24s %s\n", marker, st.Label, st.Value)
		}
		return nil
	}

	shot := strings.Join(args, " ")
	if strings.EqualFold(shot, "none") {
		shot = ""
	}
	if err := r.studio.Apply(func(s studio.State) (studio.State, error) { return s.SetShotType(shot) }); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Shot type: %s\n", orNone(r.studio.State().ShotType))
	return nil
}

// PresetCommand selects a style preset
type PresetCommand struct{}

func (c *PresetCommand) Name() string        { return "preset" }
func (c *PresetCommand) Aliases() []string   { return []string{"style"} }
func (c *PresetCommand) Description() string { return "List style presets or select one" }
func (c *PresetCommand) Usage() string       { return "preset [id]" }

func (c *PresetCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		current := r.studio.State().Preset.ID
		for _, p := range preset.All() {
			marker := "  "
			if p.ID == current {
				marker = "> "
			}
			fmt.Fprintf(r.out, "%s%-28s %s\n", marker, p.ID, p.Name)
		}
		return nil
	}

	id := args[0]
	if _, ok := preset.Get(id); !ok {
		return fmt.Errorf("unknown preset: %s", id)
	}
	r.studio.Update(func(s studio.State) studio.State { return s.SelectPreset(id) })

	st := r.studio.State()
	fmt.Fprintf(r.out, "Preset: %s (%s, %s)\n", st.Preset.Name, st.AspectRatio, st.Resolution.Name)
	return nil
}

// RatioCommand sets the aspect ratio
type RatioCommand struct{}

func (c *RatioCommand) Name() string        { return "ratio" }
func (c *RatioCommand) Aliases() []string   { return []string{"ar"} }
func (c *RatioCommand) Description() string { return "Get or set the aspect ratio" }
func (c *RatioCommand) Usage() string       { return "ratio [1:1|16:9|9:16|4:3|3:4]" }

func (c *RatioCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Aspect ratio: %s (choices: %v)\n", r.studio.State().AspectRatio, models.AspectRatios())
		return nil
	}
	ratio := models.AspectRatio(args[0])
	return r.studio.Apply(func(s studio.State) (studio.State, error) { return s.SetAspectRatio(ratio) })
}

// ResolutionCommand sets the resolution tier
type ResolutionCommand struct{}

func (c *ResolutionCommand) Name() string        { return "resolution" }
func (c *ResolutionCommand) Aliases() []string   { return []string{"res"} }
func (c *ResolutionCommand) Description() string { return "Get or set the resolution tier" }
func (c *ResolutionCommand) Usage() string       { return "resolution [tier]" }

func (c *ResolutionCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		st := r.studio.State()
		for _, tier := range preset.Tiers() {
			marker := "  "
			if tier.Name == st.Resolution.Name {
				marker = "> "
			}
			dims := preset.TargetDimensions(tier.Name, st.AspectRatio)
			fmt.Fprintf(r.out, "%s%-8s %s\n", marker, tier.Name, dims)
		}
		return nil
	}
	tier := strings.Join(args, " ")
	return r.studio.Apply(func(s studio.State) (studio.State, error) { return s.SetResolution(tier) })
}

// FormatCommand sets the output format
type FormatCommand struct{}

func (c *FormatCommand) Name() string        { return "format" }
func (c *FormatCommand) Aliases() []string   { return []string{"f"} }
func (c *FormatCommand) Description() string { return "Get or set the output format" }
func (c *FormatCommand) Usage() string       { return "format [png|jpeg|webp]" }

func (c *FormatCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "Format: %s\n", r.studio.State().Format)
		return nil
	}
	f, err := models.ParseOutputFormat(args[0])
	if err != nil {
		return err
	}
	return r.studio.Apply(func(s studio.State) (studio.State, error) { return s.SetFormat(f) })
}

// ModelCommand changes the current model
type ModelCommand struct{}

func (c *ModelCommand) Name() string        { return "model" }
func (c *ModelCommand) Aliases() []string   { return []string{"m"} }
func (c *ModelCommand) Description() string { return "Get or set the model for the current mode" }
func (c *ModelCommand) Usage() string       { return "model [name]" }

func (c *ModelCommand) Execute(_ context.Context, r *REPL, args []string) error {
	registry := r.studio.Registry()
	st := r.studio.State()

	if len(args) == 0 {
		mode := models.ModeTextToImage
		if st.Reference != nil {
			mode = models.ModeImageToImage
		}
		fmt.Fprintf(r.out, "Current model: %s (%s)\n", st.Model, mode)
		fmt.Fprintln(r.out, "\nAvailable models:")
		for _, name := range registry.ListByMode(mode) {
			cap, _ := registry.Get(name)
			fmt.Fprintf(r.out, "  - %s (%s)\n", name, cap.DisplayName)
		}
		return nil
	}

	name := args[0]
	if err := r.studio.Apply(func(s studio.State) (studio.State, error) { return s.SetModel(registry, name) }); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Model set to: %s\n", name)
	return nil
}

// RefCommand attaches a reference image
type RefCommand struct{}

func (c *RefCommand) Name() string        { return "ref" }
func (c *RefCommand) Aliases() []string   { return []string{"reference"} }
func (c *RefCommand) Description() string { return "Attach a reference image (switches to image-to-image)" }
func (c *RefCommand) Usage() string       { return "ref <path|url>" }

func (c *RefCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}

	src := strings.Join(args, " ")
	p, err := r.saver.Load(ctx, src)
	if err != nil {
		r.studio.Update(func(s studio.State) studio.State {
			s.Error = studio.UserMessage(err)
			return s
		})
		return err
	}

	if err := r.studio.Apply(func(s studio.State) (studio.State, error) { return s.AttachReference(p) }); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Reference attached (%s, %s); model: %s\n", p.MIMEType, humanSize(len(p.Data)), r.studio.State().Model)
	return nil
}

// UnrefCommand removes the reference image
type UnrefCommand struct{}

func (c *UnrefCommand) Name() string        { return "unref" }
func (c *UnrefCommand) Aliases() []string   { return nil }
func (c *UnrefCommand) Description() string { return "Remove the reference image" }
func (c *UnrefCommand) Usage() string       { return "unref" }

func (c *UnrefCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	r.studio.Update(studio.State.DetachReference)
	fmt.Fprintf(r.out, "Reference removed; model: %s\n", r.studio.State().Model)
	return nil
}

// DNACommand toggles identity locking for reference generations
type DNACommand struct{}

func (c *DNACommand) Name() string        { return "dna" }
func (c *DNACommand) Aliases() []string   { return nil }
func (c *DNACommand) Description() string { return "Toggle or set the DNA lock" }
func (c *DNACommand) Usage() string       { return "dna [on|off]" }

func (c *DNACommand) Execute(_ context.Context, r *REPL, args []string) error {
	on := !r.studio.State().DNALock
	if len(args) > 0 {
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			on = true
		case "off", "false", "0":
			on = false
		default:
			return fmt.Errorf("usage: %s", c.Usage())
		}
	}
	r.studio.Update(func(s studio.State) studio.State { return s.SetDNALock(on) })
	fmt.Fprintf(r.out, "DNA lock: %s\n", onOff(on))
	return nil
}

// PositiveCommand edits the positive prompt field
type PositiveCommand struct{}

func (c *PositiveCommand) Name() string        { return "positive" }
func (c *PositiveCommand) Aliases() []string   { return []string{"pos"} }
func (c *PositiveCommand) Description() string { return "Get or set the positive prompt ('reset' restores the default)" }
func (c *PositiveCommand) Usage() string       { return "positive [text|reset]" }

func (c *PositiveCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(r.out, r.studio.State().PositivePrompt)
		return nil
	}
	text := strings.Join(args, " ")
	if text == "reset" {
		text = preset.FixedPositivePrompt
	}
	r.studio.Update(func(s studio.State) studio.State { return s.SetPositivePrompt(text) })
	return nil
}

// NegativeCommand edits the negative prompt field
type NegativeCommand struct{}

func (c *NegativeCommand) Name() string        { return "negative" }
func (c *NegativeCommand) Aliases() []string   { return []string{"neg"} }
func (c *NegativeCommand) Description() string { return "Get or set the negative prompt ('reset' restores the preset's)" }
func (c *NegativeCommand) Usage() string       { return "negative [text|reset]" }

func (c *NegativeCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(r.out, r.studio.State().NegativePrompt)
		return nil
	}
	text := strings.Join(args, " ")
	r.studio.Update(func(s studio.State) studio.State {
		if text == "reset" {
			return s.SetNegativePrompt(s.Preset.NegativePrompt)
		}
		return s.SetNegativePrompt(text)
	})
	return nil
}

// GenerateCommand generates a new source image
type GenerateCommand struct{}

func (c *GenerateCommand) Name() string        { return "generate" }
func (c *GenerateCommand) Aliases() []string   { return []string{"gen", "g"} }
func (c *GenerateCommand) Description() string { return "Generate an image (optionally setting the prompt first)" }
func (c *GenerateCommand) Usage() string       { return "generate [prompt]" }

func (c *GenerateCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	if len(args) > 0 {
		text := strings.Join(args, " ")
		r.studio.Update(func(s studio.State) studio.State { return s.SetMainText(text) })
	}
	model := r.studio.State().Model
	return r.runAction(ctx, "Generating with "+model, studio.ActionGenerate, r.studio.Generate)
}

// RetryCommand re-runs the last action
type RetryCommand struct{}

func (c *RetryCommand) Name() string        { return "retry" }
func (c *RetryCommand) Aliases() []string   { return []string{"again"} }
func (c *RetryCommand) Description() string { return "Re-run the last action with the same parameters" }
func (c *RetryCommand) Usage() string       { return "retry" }

func (c *RetryCommand) Execute(ctx context.Context, r *REPL, _ []string) error {
	a := studio.ActionGenerate
	if last := r.studio.State().LastEffect; last != nil {
		a = last.Action
	}
	return r.runAction(ctx, "Retrying", a, r.studio.Retry)
}

// BeautifyCommand enhances the source image in place
type BeautifyCommand struct{}

func (c *BeautifyCommand) Name() string        { return "beautify" }
func (c *BeautifyCommand) Aliases() []string   { return []string{"enhance"} }
func (c *BeautifyCommand) Description() string { return "Enhance the source image without changing it" }
func (c *BeautifyCommand) Usage() string       { return "beautify" }

func (c *BeautifyCommand) Execute(ctx context.Context, r *REPL, _ []string) error {
	return r.runAction(ctx, "Beautifying", studio.ActionBeautify, r.studio.Beautify)
}

// PortraitCommand extracts a studio headshot from the source image
type PortraitCommand struct{}

func (c *PortraitCommand) Name() string        { return "portrait" }
func (c *PortraitCommand) Aliases() []string   { return nil }
func (c *PortraitCommand) Description() string { return "Create an 8K portrait from the source image" }
func (c *PortraitCommand) Usage() string       { return "portrait" }

func (c *PortraitCommand) Execute(ctx context.Context, r *REPL, _ []string) error {
	return r.runAction(ctx, "Creating portrait", studio.ActionPortrait, r.studio.ExtractPortrait)
}

// PostCommand applies a post-process preset
type PostCommand struct{}

func (c *PostCommand) Name() string        { return "post" }
func (c *PostCommand) Aliases() []string   { return []string{"fx"} }
func (c *PostCommand) Description() string { return "List post-process presets or apply one" }
func (c *PostCommand) Usage() string       { return "post [id] [source|portrait]" }

func (c *PostCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		for _, p := range preset.PostProcessPresets() {
			fmt.Fprintf(r.out, "  %-28s %s\n", p.ID, p.Name)
		}
		return nil
	}

	target, err := targetArg(args[1:])
	if err != nil {
		return err
	}
	id := args[0]
	a := studio.ActionPostSource
	if target == studio.TargetPortrait {
		a = studio.ActionPostPortrait
	}
	return r.runAction(ctx, "Applying "+id, a, func(ctx context.Context) error {
		return r.studio.PostProcess(ctx, id, target)
	})
}

// DeletePortraitCommand discards the portrait result
type DeletePortraitCommand struct{}

func (c *DeletePortraitCommand) Name() string        { return "delete-portrait" }
func (c *DeletePortraitCommand) Aliases() []string   { return []string{"rmportrait"} }
func (c *DeletePortraitCommand) Description() string { return "Discard the portrait image" }
func (c *DeletePortraitCommand) Usage() string       { return "delete-portrait" }

func (c *DeletePortraitCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	r.studio.Update(studio.State.DeletePortrait)
	fmt.Fprintln(r.out, "Portrait deleted")
	return nil
}

// RateCommand toggles a thumbs up or down on a result
type RateCommand struct{}

func (c *RateCommand) Name() string        { return "rate" }
func (c *RateCommand) Aliases() []string   { return nil }
func (c *RateCommand) Description() string { return "Toggle a rating on a result" }
func (c *RateCommand) Usage() string       { return "rate <up|down> [source|portrait]" }

func (c *RateCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	target, err := targetArg(args[1:])
	if err != nil {
		return err
	}
	rating := studio.Rating(strings.ToLower(args[0]))
	if err := r.studio.Apply(func(s studio.State) (studio.State, error) { return s.Rate(target, rating) }); err != nil {
		return err
	}

	st := r.studio.State()
	current := st.SourceRating
	if target == studio.TargetPortrait {
		current = st.PortraitRating
	}
	fmt.Fprintf(r.out, "%s rating: %s\n", target, orNone(string(current)))
	return nil
}

// SaveCommand writes a result to disk
type SaveCommand struct{}

func (c *SaveCommand) Name() string        { return "save" }
func (c *SaveCommand) Aliases() []string   { return []string{"s", "download"} }
func (c *SaveCommand) Description() string { return "Save a result to a file (default: timestamped name)" }
func (c *SaveCommand) Usage() string       { return "save [path] [source|portrait]" }

func (c *SaveCommand) Execute(_ context.Context, r *REPL, args []string) error {
	var path string
	target := studio.TargetSource

	for _, arg := range args {
		if t, err := studio.ParseTarget(arg); err == nil && arg != "" {
			target = t
			continue
		}
		path = arg
	}

	p := imageFor(r.studio.State(), target)
	if p == nil {
		return fmt.Errorf("no %s image to save", target)
	}

	if path == "" {
		saved, err := r.saver.Download(*p, r.outputDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Saved: %s\n", saved)
		return nil
	}

	path, err := security.SavePath(path, p.Extension())
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	if err := r.saver.Save(*p, path); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Saved: %s\n", path)
	return nil
}

// ShowCommand previews a result inline
type ShowCommand struct{}

func (c *ShowCommand) Name() string        { return "show" }
func (c *ShowCommand) Aliases() []string   { return []string{"display", "view"} }
func (c *ShowCommand) Description() string { return "Preview a result in the terminal" }
func (c *ShowCommand) Usage() string       { return "show [source|portrait]" }

func (c *ShowCommand) Execute(_ context.Context, r *REPL, args []string) error {
	target, err := targetArg(args)
	if err != nil {
		return err
	}
	p := imageFor(r.studio.State(), target)
	if p == nil {
		return fmt.Errorf("no %s image to show", target)
	}
	if r.displayer == nil {
		return fmt.Errorf("terminal does not support inline images")
	}
	return r.displayer.Display(*p)
}

// GalleryCommand manages saved results
type GalleryCommand struct{}

func (c *GalleryCommand) Name() string        { return "gallery" }
func (c *GalleryCommand) Aliases() []string   { return []string{"gal"} }
func (c *GalleryCommand) Description() string { return "List, add, show or remove gallery images" }
func (c *GalleryCommand) Usage() string {
	return "gallery [list|add [source|portrait]|show <id>|remove <id>]"
}

func (c *GalleryCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	if r.gallery == nil {
		return fmt.Errorf("gallery is not available")
	}
	if len(args) == 0 {
		return c.list(ctx, r)
	}

	subCmd := strings.ToLower(args[0])
	subArgs := args[1:]

	switch subCmd {
	case "list", "ls":
		return c.list(ctx, r)
	case "add", "save":
		return c.add(ctx, r, subArgs)
	case "show", "view":
		if len(subArgs) == 0 {
			return fmt.Errorf("usage: gallery show <id>")
		}
		return c.show(ctx, r, subArgs[0])
	case "remove", "rm":
		if len(subArgs) == 0 {
			return fmt.Errorf("usage: gallery remove <id>")
		}
		if err := r.gallery.RemoveID(ctx, subArgs[0]); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Removed: %s\n", subArgs[0])
		return nil
	default:
		return fmt.Errorf("unknown gallery command: %s", subCmd)
	}
}

func (c *GalleryCommand) list(ctx context.Context, r *REPL) error {
	entries, err := r.gallery.List(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "Gallery is empty")
		return nil
	}

	fmt.Fprintf(r.out, "%-8s  %-16s  %-10s  %-11s  %s\n", "ID", "Created", "Action", "Size", "Prompt")
	fmt.Fprintln(r.out, strings.Repeat("-", 78))
	for _, e := range entries {
		size := "-"
		if e.Metadata.Width > 0 {
			size = fmt.Sprintf("%dx%d", e.Metadata.Width, e.Metadata.Height)
		}
		fmt.Fprintf(r.out, "%-8s  %-16s  %-10s  %-11s  %s\n",
			shortID(e.ID),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			orNone(e.Metadata.Action),
			size,
			truncate(e.Metadata.Prompt, 30))
	}
	return nil
}

func (c *GalleryCommand) add(ctx context.Context, r *REPL, args []string) error {
	target, err := targetArg(args)
	if err != nil {
		return err
	}
	st := r.studio.State()
	p := imageFor(st, target)
	if p == nil {
		return fmt.Errorf("no %s image to add", target)
	}

	var meta gallery.Metadata
	if st.LastEffect != nil {
		meta = st.LastEffect.Metadata
	}
	inserted, err := r.gallery.Add(ctx, *p, meta)
	if err != nil {
		return fmt.Errorf("%s", studio.UserMessage(err))
	}
	if !inserted {
		fmt.Fprintln(r.out, "Already in gallery")
		return nil
	}
	fmt.Fprintln(r.out, "Added to gallery")
	return nil
}

func (c *GalleryCommand) show(ctx context.Context, r *REPL, id string) error {
	e, err := r.gallery.Get(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "%s  %s  %s\n", e.ID, e.Image.MIMEType, humanSize(len(e.Image.Data)))
	if e.Metadata.Prompt != "" {
		fmt.Fprintf(r.out, "Prompt: %s\n", e.Metadata.Prompt)
	}
	r.show(e.Image)
	return nil
}

// StatusCommand prints the current state
type StatusCommand struct{}

func (c *StatusCommand) Name() string        { return "status" }
func (c *StatusCommand) Aliases() []string   { return []string{"st"} }
func (c *StatusCommand) Description() string { return "Show the current settings and results" }
func (c *StatusCommand) Usage() string       { return "status" }

func (c *StatusCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	st := r.studio.State()
	dims := preset.TargetDimensions(st.Resolution.Name, st.AspectRatio)

	fmt.Fprintf(r.out, "Preset:      %s\n", st.Preset.ID)
	fmt.Fprintf(r.out, "Model:       %s\n", st.Model)
	fmt.Fprintf(r.out, "Ratio:       %s\n", st.AspectRatio)
	fmt.Fprintf(r.out, "Resolution:  %s (%s)\n", st.Resolution.Name, dims)
	fmt.Fprintf(r.out, "Format:      %s\n", st.Format)
	fmt.Fprintf(r.out, "Shot:        %s\n", orNone(st.ShotType))
	fmt.Fprintf(r.out, "DNA lock:    %s\n", onOff(st.DNALock))
	fmt.Fprintf(r.out, "Prompt:      %q\n", st.MainText)
	if st.Reference != nil {
		fmt.Fprintf(r.out, "Reference:   %s, %s\n", st.Reference.MIMEType, humanSize(len(st.Reference.Data)))
	} else {
		fmt.Fprintln(r.out, "Reference:   none")
	}
	fmt.Fprintf(r.out, "Source:      %s\n", describe(st.Source, st.SourceRating))
	fmt.Fprintf(r.out, "Portrait:    %s\n", describe(st.Portrait, st.PortraitRating))
	if r.auth != nil {
		fmt.Fprintf(r.out, "API key:     %s\n", r.auth.State())
	}
	if st.Error != "" {
		fmt.Fprintf(r.out, "Last error:  %s\n", st.Error)
	}
	return nil
}

// ResetCommand restores every setting and drops results
type ResetCommand struct{}

func (c *ResetCommand) Name() string        { return "reset" }
func (c *ResetCommand) Aliases() []string   { return []string{"new"} }
func (c *ResetCommand) Description() string { return "Reset settings and clear results" }
func (c *ResetCommand) Usage() string       { return "reset" }

func (c *ResetCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	r.studio.Update(studio.State.Reset)
	fmt.Fprintln(r.out, "Reset to defaults")
	return nil
}

// KeyCommand replaces the API key
type KeyCommand struct{}

func (c *KeyCommand) Name() string        { return "key" }
func (c *KeyCommand) Aliases() []string   { return nil }
func (c *KeyCommand) Description() string { return "Show the API key state or enter a new key" }
func (c *KeyCommand) Usage() string       { return "key [value]" }

func (c *KeyCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if r.auth == nil {
		return fmt.Errorf("key management is not available")
	}
	if len(args) == 0 {
		key, _ := r.auth.Key()
		fmt.Fprintf(r.out, "API key: %s (%s", r.auth.State(), orNone(r.auth.Source()))
		if key != "" {
			fmt.Fprintf(r.out, ", %s", keys.MaskKey(key))
		}
		fmt.Fprintln(r.out, ")")
		return nil
	}
	if err := r.auth.Set(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "API key updated: %s\n", keys.MaskKey(args[0]))
	return nil
}

// HelpCommand shows available commands
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Aliases() []string   { return []string{"?"} }
func (c *HelpCommand) Description() string { return "Show available commands" }
func (c *HelpCommand) Usage() string       { return "help" }

func (c *HelpCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	fmt.Fprintln(r.out, "Available commands:")
	fmt.Fprintln(r.out)

	for _, cmd := range allCommands() {
		aliases := ""
		if len(cmd.Aliases()) > 0 {
			aliases = fmt.Sprintf(" (%s)", strings.Join(cmd.Aliases(), ", "))
		}
		fmt.Fprintf(r.out, "  %-24s%s\n", cmd.Name()+aliases, cmd.Description())
		fmt.Fprintf(r.out, "                          Usage: %s\n", cmd.Usage())
	}

	return nil
}

// QuitCommand exits the REPL
type QuitCommand struct{}

func (c *QuitCommand) Name() string        { return "quit" }
func (c *QuitCommand) Aliases() []string   { return []string{"exit", "q"} }
func (c *QuitCommand) Description() string { return "Exit interactive mode" }
func (c *QuitCommand) Usage() string       { return "quit" }

func (c *QuitCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	fmt.Fprintln(r.out, "Goodbye!")
	r.Stop()
	return nil
}

func targetArg(args []string) (studio.Target, error) {
	if len(args) == 0 {
		return studio.TargetSource, nil
	}
	return studio.ParseTarget(args[0])
}

func describe(p *models.Payload, rating studio.Rating) string {
	if p == nil {
		return "none"
	}
	s := fmt.Sprintf("%s, %s", p.MIMEType, humanSize(len(p.Data)))
	if rating != studio.RatingNone {
		s += " [" + string(rating) + "]"
	}
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
