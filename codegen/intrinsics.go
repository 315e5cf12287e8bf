package codegen

import (
	"fmt"
	"strings"

	"github.com/yis-lang/yisc/ast"
	"github.com/yis-lang/yisc/check"
)

// intrinsicSig describes one entry of the intrinsic bridge to the GUI
// framework: a bare `__cogito_*` identifier maps to a fixed-arity C
// runtime symbol and a return shape. Grounded on
// original_source/src/ergo/codegen.c's own closed dispatch over these
// names; the native widget implementations behind the symbols are out
// of scope here; only the declarations and the call-site bridge are.
type intrinsicSig struct {
	Symbol string
	Argc   int
	Void   bool
}

// intrinsicTable is the data table §9 calls for: name -> (c-symbol,
// param-count, return-shape), consulted at emit time instead of going
// through ordinary function resolution.
var intrinsicTable = map[string]intrinsicSig{
	"__cogito_app":           {"cogito_app_new", 0, false},
	"__cogito_colorpicker":   {"cogito_colorpicker_new", 0, false},
	"__cogito_datepicker":    {"cogito_datepicker_new", 0, false},
	"__cogito_dialog_slot":   {"cogito_dialog_slot_new", 0, false},
	"__cogito_dropdown":      {"cogito_dropdown_new", 0, false},
	"__cogito_fixed":         {"cogito_fixed_new", 0, false},
	"__cogito_hstack":        {"cogito_hstack_new", 0, false},
	"__cogito_list":          {"cogito_list_new", 0, false},
	"__cogito_scroller":      {"cogito_scroller_new", 0, false},
	"__cogito_segmented":     {"cogito_segmented_new", 0, false},
	"__cogito_tabs":          {"cogito_tabs_new", 0, false},
	"__cogito_toasts":        {"cogito_toasts_new", 0, false},
	"__cogito_toolbar":       {"cogito_toolbar_new", 0, false},
	"__cogito_treeview":      {"cogito_treeview_new", 0, false},
	"__cogito_view_switcher": {"cogito_view_switcher_new", 0, false},
	"__cogito_vstack":        {"cogito_vstack_new", 0, false},
	"__cogito_zstack":        {"cogito_zstack_new", 0, false},
	"__cogito_pointer_release": {"cogito_pointer_capture_clear", 0, true},

	"__cogito_button":      {"cogito_button_new", 1, false},
	"__cogito_dialog":      {"cogito_dialog_new", 1, false},
	"__cogito_grid":        {"cogito_grid_new", 1, false},
	"__cogito_iconbtn":     {"cogito_iconbtn_new", 1, false},
	"__cogito_image":       {"cogito_image_new", 1, false},
	"__cogito_label":       {"cogito_label_new", 1, false},
	"__cogito_progress":    {"cogito_progress_new", 1, false},
	"__cogito_searchfield": {"cogito_searchfield_new", 1, false},
	"__cogito_switch":      {"cogito_switch_new", 1, false},
	"__cogito_textfield":   {"cogito_textfield_new", 1, false},
	"__cogito_textview":    {"cogito_textview_new", 1, false},
	"__cogito_toast":       {"cogito_toast_new", 1, false},
	"__cogito_state_new":   {"cogito_state_new", 1, false},

	"__cogito_checkbox_get_checked":  {"cogito_checkbox_get_checked", 1, false},
	"__cogito_dropdown_get_selected": {"cogito_dropdown_get_selected", 1, false},
	"__cogito_progress_get_value":    {"cogito_progress_get_value", 1, false},
	"__cogito_searchfield_get_text":  {"cogito_searchfield_get_text", 1, false},
	"__cogito_slider_get_value":      {"cogito_slider_get_value", 1, false},
	"__cogito_state_get":             {"cogito_state_get", 1, false},
	"__cogito_switch_get_checked":    {"cogito_switch_get_checked", 1, false},
	"__cogito_tabs_get_selected":     {"cogito_tabs_get_selected", 1, false},
	"__cogito_textfield_get_text":    {"cogito_textfield_get_text", 1, false},
	"__cogito_textview_get_text":     {"cogito_textview_get_text", 1, false},
	"__cogito_node_window":           {"cogito_node_window_val", 1, false},

	"__cogito_load_sum":            {"cogito_load_sum", 1, true},
	"__cogito_window_clear_dialog": {"cogito_window_clear_dialog", 1, true},
	"__cogito_dialog_slot_clear":   {"cogito_dialog_slot_clear", 1, true},
	"__cogito_pointer_capture":     {"cogito_pointer_capture_set", 1, true},

	"__cogito_checkbox": {"cogito_checkbox_new", 2, false},

	"__cogito_appbar": {"cogito_appbar_new", 2, false},

	"__cogito_appbar_set_controls":       {"cogito_appbar_set_controls", 2, true},
	"__cogito_app_set_appid":             {"cogito_app_set_appid", 2, true},
	"__cogito_build":                     {"cogito_build", 2, true},
	"__cogito_button_on_click":           {"cogito_button_on_click", 2, true},
	"__cogito_button_set_text":           {"cogito_button_set_text", 2, true},
	"__cogito_checkbox_on_change":        {"cogito_checkbox_on_change", 2, true},
	"__cogito_checkbox_set_checked":      {"cogito_checkbox_set_checked", 2, true},
	"__cogito_colorpicker_on_change":     {"cogito_colorpicker_on_change", 2, true},
	"__cogito_container_add":             {"cogito_container_add", 2, true},
	"__cogito_container_set_align":       {"cogito_container_set_align", 2, true},
	"__cogito_container_set_halign":      {"cogito_container_set_halign", 2, true},
	"__cogito_container_set_hexpand":     {"cogito_container_set_hexpand", 2, true},
	"__cogito_container_set_valign":      {"cogito_container_set_valign", 2, true},
	"__cogito_container_set_vexpand":     {"cogito_container_set_vexpand", 2, true},
	"__cogito_datepicker_on_change":      {"cogito_datepicker_on_change", 2, true},
	"__cogito_dialog_slot_show":          {"cogito_dialog_slot_show", 2, true},
	"__cogito_dropdown_on_change":        {"cogito_dropdown_on_change", 2, true},
	"__cogito_dropdown_set_items":        {"cogito_dropdown_set_items", 2, true},
	"__cogito_dropdown_set_selected":     {"cogito_dropdown_set_selected", 2, true},
	"__cogito_grid_on_activate":          {"cogito_grid_on_activate", 2, true},
	"__cogito_grid_on_select":            {"cogito_grid_on_select", 2, true},
	"__cogito_image_set_icon":            {"cogito_image_set_icon", 2, true},
	"__cogito_label_set_align":           {"cogito_label_set_align", 2, true},
	"__cogito_label_set_class":           {"cogito_label_set_class", 2, true},
	"__cogito_label_set_ellipsis":        {"cogito_label_set_ellipsis", 2, true},
	"__cogito_label_set_wrap":            {"cogito_label_set_wrap", 2, true},
	"__cogito_list_on_activate":          {"cogito_list_on_activate", 2, true},
	"__cogito_list_on_select":            {"cogito_list_on_select", 2, true},
	"__cogito_node_set_class":            {"cogito_node_set_class", 2, true},
	"__cogito_node_set_disabled":         {"cogito_node_set_disabled", 2, true},
	"__cogito_node_set_id":               {"cogito_node_set_id", 2, true},
	"__cogito_node_set_tooltip":          {"cogito_node_set_tooltip_val", 2, true},
	"__cogito_progress_set_value":        {"cogito_progress_set_value", 2, true},
	"__cogito_run":                       {"cogito_run", 2, true},
	"__cogito_searchfield_on_change":     {"cogito_searchfield_on_change", 2, true},
	"__cogito_searchfield_set_text":      {"cogito_searchfield_set_text", 2, true},
	"__cogito_slider_on_change":          {"cogito_slider_on_change", 2, true},
	"__cogito_slider_set_value":          {"cogito_slider_set_value", 2, true},
	"__cogito_state_set":                 {"cogito_state_set", 2, true},
	"__cogito_switch_on_change":          {"cogito_switch_on_change", 2, true},
	"__cogito_switch_set_checked":        {"cogito_switch_set_checked", 2, true},
	"__cogito_tabs_bind":                 {"cogito_tabs_bind", 2, true},
	"__cogito_tabs_on_change":            {"cogito_tabs_on_change", 2, true},
	"__cogito_tabs_set_ids":              {"cogito_tabs_set_ids", 2, true},
	"__cogito_tabs_set_items":            {"cogito_tabs_set_items", 2, true},
	"__cogito_tabs_set_selected":         {"cogito_tabs_set_selected", 2, true},
	"__cogito_textfield_on_change":       {"cogito_textfield_on_change", 2, true},
	"__cogito_textfield_set_text":        {"cogito_textfield_set_text", 2, true},
	"__cogito_textview_on_change":        {"cogito_textview_on_change", 2, true},
	"__cogito_textview_set_text":         {"cogito_textview_set_text", 2, true},
	"__cogito_toast_on_click":            {"cogito_toast_on_click", 2, true},
	"__cogito_toast_set_text":            {"cogito_toast_set_text", 2, true},
	"__cogito_view_switcher_set_active":  {"cogito_view_switcher_set_active", 2, true},
	"__cogito_window_set_autosize":       {"cogito_window_set_autosize", 2, true},
	"__cogito_window_set_builder":        {"cogito_window_set_builder", 2, true},
	"__cogito_window_set_dialog":         {"cogito_window_set_dialog", 2, true},
	"__cogito_window_set_resizable":      {"cogito_window_set_resizable", 2, true},

	"__cogito_slider": {"cogito_slider_new", 3, false},
	"__cogito_window": {"cogito_window_new", 3, false},

	"__cogito_app_set_accent_color": {"cogito_app_set_accent_color", 3, true},
	"__cogito_appbar_add_button":    {"cogito_appbar_add_button", 3, false},
	"__cogito_button_add_menu":      {"cogito_button_add_menu", 3, true},
	"__cogito_grid_set_align":       {"cogito_grid_set_align", 3, true},
	"__cogito_grid_set_gap":         {"cogito_grid_set_gap", 3, true},
	"__cogito_grid_set_span":        {"cogito_grid_set_span", 3, true},
	"__cogito_iconbtn_add_menu":     {"cogito_iconbtn_add_menu", 3, true},
	"__cogito_scroller_set_axes":    {"cogito_scroller_set_axes", 3, true},

	"__cogito_stepper": {"cogito_stepper_new", 4, false},

	"__cogito_fixed_set_pos": {"cogito_fixed_set_pos", 4, true},

	"__cogito_container_set_margins": {"cogito_container_set_margins", 5, true},
	"__cogito_container_set_padding": {"cogito_container_set_padding", 5, true},
}

// emitIntrinsicCall lowers a call to a __cogito_* identifier: evaluate
// every argument left to right into its own temporary, call the
// runtime symbol, release every argument temporary (the callee
// borrows, it never consumes the caller's reference), then yield
// EV_NULLV for a void bridge entry or the call's own result value
// otherwise.
func (e *Emitter) emitIntrinsicCall(name string, sig intrinsicSig, args []ast.Expr, c *check.Context) (string, error) {
	if len(args) != sig.Argc {
		return "", fmt.Errorf("codegen: intrinsic %q expects %d argument(s), got %d", name, sig.Argc, len(args))
	}

	var b strings.Builder
	b.WriteString("({ ")
	argTmps := make([]string, 0, len(args))
	for _, a := range args {
		val, err := e.emitExpr(a, c)
		if err != nil {
			return "", err
		}
		t := e.nextTmp()
		fmt.Fprintf(&b, "ErgoVal %s = %s; ", t, val)
		argTmps = append(argTmps, t)
	}

	call := fmt.Sprintf("%s(%s)", sig.Symbol, strings.Join(argTmps, ", "))
	if sig.Void {
		fmt.Fprintf(&b, "%s; ", call)
		for _, t := range argTmps {
			fmt.Fprintf(&b, "ergo_release_val(%s); ", t)
		}
		b.WriteString("EV_NULLV; })")
		return b.String(), nil
	}

	rTmp := e.nextTmp()
	fmt.Fprintf(&b, "ErgoVal %s = %s; ", rTmp, call)
	for _, t := range argTmps {
		fmt.Fprintf(&b, "ergo_release_val(%s); ", t)
	}
	fmt.Fprintf(&b, "%s; })", rTmp)
	return b.String(), nil
}
