package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/showcase"
)

// ProfileFormMode selects between first-time setup and editing
type ProfileFormMode int

const (
	ProfileSetup ProfileFormMode = iota
	ProfileEdit
)

// Field positions in the profile form
const (
	profileFieldName = iota
	profileFieldBio
	profileFieldHandle
	profileFieldPhoto
)

// ProfileForm is the modal used both for first-time setup and for editing
type ProfileForm struct {
	visible    bool
	mode       ProfileFormMode
	submitting bool
	err        error
	fields     fieldSet
}

// NewProfileForm creates a hidden profile form
func NewProfileForm() ProfileForm {
	return ProfileForm{
		fields: fieldSet{fields: []field{
			newInputField("Display Name", "e.g. Jane Smith", true, 80),
			newAreaField("Bio", "Tell visitors about yourself and what you recommend…", 500),
			newInputField("Social Handle", "@yourhandle", false, 40),
			newInputField("Profile Photo URL", "https://example.com/photo.jpg", false, 300),
		}},
	}
}

// Show opens the form, seeding the draft from current. Re-seeding only
// happens on the closed to open transition.
func (f *ProfileForm) Show(mode ProfileFormMode, current domain.Option[domain.UserProfile]) tea.Cmd {
	if f.visible {
		return nil
	}
	d := showcase.NewProfileDraft(current)
	f.visible = true
	f.mode = mode
	f.submitting = false
	f.err = nil
	return f.fields.reset(d.DisplayName, d.Bio, d.SocialHandle, d.ProfilePhotoURL)
}

// Hide dismisses the form
func (f *ProfileForm) Hide() {
	f.visible = false
	f.submitting = false
	f.fields.blurAll()
}

func (f ProfileForm) IsVisible() bool        { return f.visible }
func (f ProfileForm) Mode() ProfileFormMode  { return f.mode }
func (f ProfileForm) IsSubmitting() bool     { return f.submitting }
func (f ProfileForm) Err() error             { return f.err }
func (f *ProfileForm) SetSubmitting(on bool) { f.submitting = on }

// SetError shows a failed submission and re-enables the form
func (f *ProfileForm) SetError(err error) {
	f.err = err
	f.submitting = false
}

// Draft returns the current field values
func (f ProfileForm) Draft() showcase.ProfileDraft {
	v := f.fields.fields
	return showcase.ProfileDraft{
		DisplayName:     v[profileFieldName].Value(),
		Bio:             v[profileFieldBio].Value(),
		SocialHandle:    v[profileFieldHandle].Value(),
		ProfilePhotoURL: v[profileFieldPhoto].Value(),
	}
}

// CanSubmit is false while a save is in flight or a required field is blank
func (f ProfileForm) CanSubmit() bool {
	return !f.submitting && f.Draft().CanSubmit()
}

// Update handles input events, returns (form, cmd, submitted).
// submitted is only true when CanSubmit holds.
func (f ProfileForm) Update(msg tea.Msg) (ProfileForm, tea.Cmd, bool) {
	if !f.visible {
		return f, nil, false
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		i := f.fields.focus
		f.fields.fields[i], cmd = f.fields.fields[i].update(msg)
		return f, cmd, false
	}

	if f.submitting {
		return f, nil, false
	}

	cmd, action := f.fields.handleKey(keyMsg)
	switch action {
	case actionSubmit:
		return f, nil, f.CanSubmit()
	case actionCancel:
		// First-time setup cannot be dismissed
		if f.mode == ProfileEdit {
			f.Hide()
		}
		return f, nil, false
	}
	return f, cmd, false
}

// View renders the form modal
func (f ProfileForm) View() string {
	if !f.visible {
		return ""
	}

	title := "Edit Profile"
	description := "Update how visitors see you."
	submit := "Save Changes"
	if f.mode == ProfileSetup {
		title = "Set Up Your Profile"
		description = "Welcome! Tell us a bit about yourself to get started."
		submit = "Create Profile"
	}
	if f.submitting {
		submit = "Saving…"
	}

	return renderFormModal(title, description, f.fields.view(), f.err, submit, f.CanSubmit(), f.mode == ProfileEdit)
}
