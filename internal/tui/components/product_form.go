package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/picks/internal/domain"
	"github.com/mmcdole/picks/internal/showcase"
)

// Field positions in the product form
const (
	productFieldTitle = iota
	productFieldDescription
	productFieldPrice
	productFieldThumbnail
	productFieldAmazon
)

// ProductForm is the add/edit product modal. Index is -1 when adding.
type ProductForm struct {
	visible    bool
	index      int
	submitting bool
	err        error
	fields     fieldSet
}

// NewProductForm creates a hidden product form
func NewProductForm() ProductForm {
	return ProductForm{
		index: -1,
		fields: fieldSet{fields: []field{
			newInputField("Product Title", "e.g. Sony WH-1000XM5 Headphones", true, 200),
			newAreaField("Description", "Why do you recommend this product?", 1000),
			newInputField("Price (optional)", "$29.99", false, 20),
			newInputField("Thumbnail URL", "https://…", false, 500),
			newInputField("Amazon URL", "https://www.amazon.com/dp/…", true, 500),
		}},
	}
}

// ShowAdd opens the form with an empty draft
func (f *ProductForm) ShowAdd() tea.Cmd {
	return f.show(-1, domain.ProductListing{})
}

// ShowEdit opens the form seeded from the listing at index
func (f *ProductForm) ShowEdit(index int, l domain.ProductListing) tea.Cmd {
	return f.show(index, l)
}

func (f *ProductForm) show(index int, l domain.ProductListing) tea.Cmd {
	if f.visible {
		return nil
	}
	d := showcase.NewProductDraft(l)
	f.visible = true
	f.index = index
	f.submitting = false
	f.err = nil
	return f.fields.reset(d.Title, d.Description, d.Price, d.ThumbnailURL, d.AmazonURL)
}

// Hide dismisses the form
func (f *ProductForm) Hide() {
	f.visible = false
	f.submitting = false
	f.fields.blurAll()
}

func (f ProductForm) IsVisible() bool        { return f.visible }
func (f ProductForm) IsEdit() bool           { return f.index >= 0 }
func (f ProductForm) Index() int             { return f.index }
func (f ProductForm) IsSubmitting() bool     { return f.submitting }
func (f ProductForm) Err() error             { return f.err }
func (f *ProductForm) SetSubmitting(on bool) { f.submitting = on }

// SetError shows a failed submission and re-enables the form
func (f *ProductForm) SetError(err error) {
	f.err = err
	f.submitting = false
}

// Draft returns the current field values
func (f ProductForm) Draft() showcase.ProductDraft {
	v := f.fields.fields
	return showcase.ProductDraft{
		Title:        v[productFieldTitle].Value(),
		Description:  v[productFieldDescription].Value(),
		Price:        v[productFieldPrice].Value(),
		ThumbnailURL: v[productFieldThumbnail].Value(),
		AmazonURL:    v[productFieldAmazon].Value(),
	}
}

// CanSubmit is false while a save is in flight or a required field is blank
func (f ProductForm) CanSubmit() bool {
	return !f.submitting && f.Draft().CanSubmit()
}

// Update handles input events, returns (form, cmd, submitted)
func (f ProductForm) Update(msg tea.Msg) (ProductForm, tea.Cmd, bool) {
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
		f.Hide()
		return f, nil, false
	}
	return f, cmd, false
}

// View renders the form modal
func (f ProductForm) View() string {
	if !f.visible {
		return ""
	}

	title := "Add Product"
	description := "Add an Amazon product to your showcase."
	submit := "Add Product"
	pending := "Adding…"
	if f.IsEdit() {
		title = "Edit Product"
		description = "Update the details of this product."
		submit = "Save Changes"
		pending = "Saving…"
	}
	if f.submitting {
		submit = pending
	}

	return renderFormModal(title, description, f.fields.view(), f.err, submit, f.CanSubmit(), true)
}
