package descriptions

import (
	"sort"
	"strings"
)

// Comprehensive tool descriptions with practical examples and use cases

const (
	// Document Tools
	SignLoadDocumentDescription = `Load a PDF file as the working document of the signing session.

**When to use:** Starting work on a new document, or replacing the current one with a different file.

**Why it's useful:** Validates the file is a real, readable PDF before accepting it, so later operations never run against broken input.

**Examples:**
• Start a session: "Load contract.pdf so I can place signature fields"
• Replace the draft: "Load contract-v2.pdf instead of the current document"

**Common workflows:**
1. Signing Setup: Load document → Invite signees → Place fields → Export
2. Revision: Load new version → Re-place fields → Re-evaluate completion

**Best practices:** Loading a new document drops all placed fields; invited signees are kept. The file must live inside the configured working directory.`

	SignDocumentInfoDescription = `Get a snapshot of the current session: document, page order, fields, signees and completion.

**When to use:** Checking session state before or after a series of edits, or resuming work.

**Examples:**
• Orientation: "Show me where the session stands before I keep editing"
• Verification: "Confirm the page order after my reorder and delete calls"`

	SignSetTitleDescription = `Rename the working document.

**When to use:** The loaded file name is not the title you want on the exported artifact.

**Why it's useful:** The title names the export file when no explicit output path is given, and appears on the signature summary page.

**Examples:**
• Before export: "Title the document 'Consulting Agreement Q3' so the export file is named after it"`

	// Page Tools
	SignReorderPagesDescription = `Move a page of the working document to a new position.

**When to use:** The document pages should appear in a different order than the uploaded file.

**Why it's useful:** Reordering is tracked without rewriting the PDF; the export applies the final order in one pass.

**Examples:**
• Move the appendix: "Move page 5 to position 1 so the cover sheet comes first"

**Common workflows:**
1. Page Cleanup: Reorder pages → Delete unwanted pages → Export

**Best practices:** Positions are zero-based display positions, not PDF page numbers. Fields stay attached to their page wherever it moves.`

	SignDeletePageDescription = `Remove a page of the working document at a display position.

**When to use:** A page should not appear in the signed artifact at all.

**Why it's useful:** Deletion also removes every field placed on that page, so no orphaned placements survive.

**Examples:**
• Drop a blank: "Delete the empty last page before exporting"

**Best practices:** The position is a zero-based display position. Deletion cannot be undone; reload the document to start over.`

	SignPageLayoutsDescription = `Get per-page layout geometry scaled to a requested render width.

**When to use:** A client needs to render page placeholders or thumbnails before placing fields.

**Why it's useful:** Returns the width, height and scale factor of every page in display order, so field coordinates can be mapped between screen space and page space.

**Examples:**
• Thumbnails: "Give me layouts at width 150 for the sidebar strip"
• Full view: "Give me layouts at width 800 for the editing canvas"`

	// Field Tools
	SignPlaceFieldDescription = `Place an annotation field on a page of the working document.

**When to use:** Adding a signature, initials, text, name, date or checkbox placement for a signee to fill.

**Why it's useful:** Fields carry type, value, position and owner. Date fields default to the current date and checkboxes to unchecked, so a placement is immediately meaningful.

**Examples:**
• Signature spot: "Place a signature field on page 1 at x=120 y=500 owned by alice@example.com"
• Fixed text: "Place a text field reading 'Approved' on page 2"

**Common workflows:**
1. Field Layout: Place fields per signee → Check completion status → Export when fully signed

**Best practices:** Assign an owner email so completion tracking attributes the field; signature values starting with 'sig-' must come from sign_capture_signature.`

	SignMoveFieldDescription = `Move a placed field to a new position on its page.

**When to use:** Adjusting field placement after seeing the layout.

**Examples:**
• Nudge: "Move field 3 to x=140 y=480"`

	SignRemoveFieldDescription = `Remove a placed field by identifier.

**When to use:** A placement is no longer wanted.

**Best practices:** Removing an unknown identifier is a harmless no-op, so repeated removals are safe.`

	SignListFieldsDescription = `List all placed fields in insertion order.

**When to use:** Reviewing the current placements, or finding a field identifier to move or remove.`

	// Signee Tools
	SignInviteSigneeDescription = `Invite a signee by name and email.

**When to use:** Registering the people who must sign the document.

**Why it's useful:** Completion is evaluated against the invited signees: the document is only fully signed once every signee has the required fields.

**Examples:**
• Two-party contract: "Invite Alice <alice@example.com> and Bob <bob@example.com>"

**Best practices:** Emails are matched case-insensitively; inviting the same email twice returns the existing entry instead of duplicating it.`

	SignRemoveSigneeDescription = `Remove a signee by their position in the signee list.

**When to use:** Someone no longer needs to sign.

**Why it's useful:** Removal cascades to every field attributed to that signee, and completion is recomputed immediately.

**Best practices:** Positions are zero-based and shift down after a removal; list signees first when removing several.`

	SignListSigneesDescription = `List the invited signees in invitation order.

**When to use:** Reviewing who must sign, or finding the position for sign_remove_signee.`

	SignCompletionStatusDescription = `Evaluate whether the document is fully signed.

**When to use:** Checking progress before export, or after any field or signee change.

**Why it's useful:** Reports per-signee progress including which required field types are still missing, so you can see exactly what blocks the export.

**Common workflows:**
1. Signing Round: Place fields → Check status → Chase missing signees → Export

**Best practices:** Under the default rule every signee needs a signature field and a name field; the legacy field-count rule can be selected at startup.`

	// Signature Tools
	SignCaptureSignatureDescription = `Store a drawn signature image and get back an opaque reference.

**When to use:** A signee has drawn their signature and it should be attached to a signature field.

**Why it's useful:** The image is validated as PNG or JPEG and held server-side; the returned 'sig-...' reference is what you store as the signature field value.

**Examples:**
• Capture then place: "Capture this PNG, then place a signature field with the returned reference"

**Best practices:** Send the image as base64. References are only valid within the running session.`

	// Export Tools
	SignExportDocumentDescription = `Produce the final PDF honoring page order, deletions and an optional signature summary page.

**When to use:** The document is ready to be written out as an artifact.

**Why it's useful:** Applies every accumulated page edit in one pass. With the summary page enabled it refuses to export unless the document is fully signed, then appends a page listing every signee and their fields with a timestamp.

**Examples:**
• Draft export: "Export as draft.pdf without the summary page"
• Final export: "Export with the signature page once everyone has signed"

**Common workflows:**
1. Final Signing: Check completion → Export with summary page → Distribute artifact

**Best practices:** Output is confined to the working directory. On success the export becomes the working document, so further edits start from the exported state.`

	SignMergeDocumentDescription = `Append every page of another PDF after the working document.

**When to use:** Combining the working document with an addendum, exhibit or second agreement.

**Why it's useful:** The merged result becomes the working document with a fresh page order covering all pages.

**Examples:**
• Add an exhibit: "Merge exhibit-a.pdf after the contract"

**Best practices:** Existing field placements are dropped by a merge because page identity changes; place fields after merging.`

	// Utility Tools
	SignServerInfoDescription = `Get server configuration, available tools and usage guidance.

**When to use:** Starting a session, troubleshooting, or discovering capabilities.

**Examples:**
• Session startup: "Check the working directory and completion rule before loading files"`
)

// ToolDescriptions maps tool names to their comprehensive descriptions
var ToolDescriptions = map[string]string{
	"sign_load_document":     SignLoadDocumentDescription,
	"sign_document_info":     SignDocumentInfoDescription,
	"sign_set_title":         SignSetTitleDescription,
	"sign_reorder_pages":     SignReorderPagesDescription,
	"sign_delete_page":       SignDeletePageDescription,
	"sign_page_layouts":      SignPageLayoutsDescription,
	"sign_place_field":       SignPlaceFieldDescription,
	"sign_move_field":        SignMoveFieldDescription,
	"sign_remove_field":      SignRemoveFieldDescription,
	"sign_list_fields":       SignListFieldsDescription,
	"sign_invite_signee":     SignInviteSigneeDescription,
	"sign_remove_signee":     SignRemoveSigneeDescription,
	"sign_list_signees":      SignListSigneesDescription,
	"sign_completion_status": SignCompletionStatusDescription,
	"sign_capture_signature": SignCaptureSignatureDescription,
	"sign_export_document":   SignExportDocumentDescription,
	"sign_merge_document":    SignMergeDocumentDescription,
	"sign_server_info":       SignServerInfoDescription,
}

// GetToolDescription returns the comprehensive description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns a sorted list of all available tool names
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetToolSummary returns the first line of a tool's description, suitable
// for one-line tool listings.
func GetToolSummary(toolName string) string {
	desc := GetToolDescription(toolName)
	if i := strings.IndexByte(desc, '\n'); i >= 0 {
		desc = desc[:i]
	}
	return strings.TrimSpace(desc)
}
