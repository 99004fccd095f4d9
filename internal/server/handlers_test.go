package server

import (
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"certforge/internal/region"
)

// createTestTemplateFile writes a white template image and returns its path.
func createTestTemplateFile(t *testing.T, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}

	path := filepath.Join(t.TempDir(), "template.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool executes a tool directly and fails the test on error.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) interface{} {
	t.Helper()

	argsJSON, _ := json.Marshal(args)
	result, err := s.executeTool(name, argsJSON)
	if err != nil {
		t.Fatalf("%s failed: %v", name, err)
	}
	return result
}

// loadSession loads a template and returns the server with a live session.
func loadSession(t *testing.T, width, height int) *Server {
	t.Helper()

	s := New()
	path := createTestTemplateFile(t, width, height)
	callTool(t, s, "template_load", map[string]interface{}{"path": path})
	return s
}

func TestTemplateLoad(t *testing.T) {
	s := New()
	path := createTestTemplateFile(t, 400, 300)

	result := callTool(t, s, "template_load", map[string]interface{}{"path": path})

	info, ok := result.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected result type %T", result)
	}
	if info["width"] != 400 || info["height"] != 300 {
		t.Errorf("dimensions = %vx%v, want 400x300", info["width"], info["height"])
	}
	if preview, _ := info["preview"].(string); preview == "" {
		t.Error("expected a base64 preview in the result")
	}
	if info["previewWidth"] != 320 {
		t.Errorf("previewWidth = %v, want 320", info["previewWidth"])
	}
	if s.template == nil || s.store == nil {
		t.Error("session not initialized after template_load")
	}
}

func TestTemplateLoad_MissingFile(t *testing.T) {
	s := New()
	argsJSON, _ := json.Marshal(map[string]interface{}{"path": "/nonexistent/template.png"})

	if _, err := s.executeTool("template_load", argsJSON); err == nil {
		t.Error("expected error for missing template file")
	}
	if s.template != nil {
		t.Error("failed load must not leave a template in the session")
	}
}

func TestTemplateLoad_ResetsSession(t *testing.T) {
	s := loadSession(t, 400, 300)
	callTool(t, s, "region_add", map[string]interface{}{"x": 10, "y": 10, "w": 100, "h": 40})
	callTool(t, s, "region_bind", map[string]interface{}{"id": "a", "name": "NAME"})

	path := createTestTemplateFile(t, 500, 200)
	callTool(t, s, "template_load", map[string]interface{}{"path": path})

	if s.store.Len() != 0 {
		t.Errorf("expected empty store after reload, got %d regions", s.store.Len())
	}
	if s.store.TemplateWidth() != 500 || s.store.TemplateHeight() != 200 {
		t.Errorf("store sized %dx%d, want 500x200", s.store.TemplateWidth(), s.store.TemplateHeight())
	}
}

func TestRegionTools_RequireTemplate(t *testing.T) {
	s := New()
	for _, name := range []string{"regions_detect", "region_add", "region_list", "layout_export", "dataset_validate"} {
		argsJSON, _ := json.Marshal(map[string]interface{}{})
		if _, err := s.executeTool(name, argsJSON); err == nil {
			t.Errorf("%s succeeded without a loaded template", name)
		}
	}
}

func TestRegionAddBindList(t *testing.T) {
	s := loadSession(t, 400, 300)

	added := callTool(t, s, "region_add", map[string]interface{}{"x": 20, "y": 30, "w": 150, "h": 50}).(region.LayoutRegion)
	if added.ID != "a" {
		t.Errorf("first region id = %q, want a", added.ID)
	}
	if added.Origin != region.OriginManual {
		t.Errorf("origin = %q, want manual", added.Origin)
	}

	bound := callTool(t, s, "region_bind", map[string]interface{}{"id": "a", "name": "NAME"}).(region.LayoutRegion)
	if bound.Binding != "NAME" {
		t.Errorf("binding = %q, want NAME", bound.Binding)
	}

	list := callTool(t, s, "region_list", nil).(map[string]interface{})
	if list["count"] != 1 {
		t.Errorf("count = %v, want 1", list["count"])
	}
}

func TestRegionBind_DuplicateName(t *testing.T) {
	s := loadSession(t, 400, 300)
	callTool(t, s, "region_add", map[string]interface{}{})
	callTool(t, s, "region_add", map[string]interface{}{})
	callTool(t, s, "region_bind", map[string]interface{}{"id": "a", "name": "NAME"})

	argsJSON, _ := json.Marshal(map[string]interface{}{"id": "b", "name": "NAME"})
	if _, err := s.executeTool("region_bind", argsJSON); err == nil {
		t.Error("expected duplicate binding to be rejected")
	}
}

func TestRegionUpdateMoveResizeRotate(t *testing.T) {
	s := loadSession(t, 400, 300)
	callTool(t, s, "region_add", map[string]interface{}{"x": 10, "y": 10, "w": 100, "h": 40})

	moved := callTool(t, s, "region_move", map[string]interface{}{"id": "a", "x": 50, "y": 60}).(region.LayoutRegion)
	if moved.X != 50 || moved.Y != 60 {
		t.Errorf("moved to (%d,%d), want (50,60)", moved.X, moved.Y)
	}

	resized := callTool(t, s, "region_resize", map[string]interface{}{"id": "a", "w": 200, "h": 80}).(region.LayoutRegion)
	if resized.W != 200 || resized.H != 80 {
		t.Errorf("resized to %dx%d, want 200x80", resized.W, resized.H)
	}

	rotated := callTool(t, s, "region_rotate", map[string]interface{}{"id": "a", "degrees": -90}).(region.LayoutRegion)
	if rotated.Rotation != 270 {
		t.Errorf("rotation = %v, want 270", rotated.Rotation)
	}

	updated := callTool(t, s, "region_update", map[string]interface{}{
		"id":    "a",
		"style": map[string]interface{}{"bold": true, "color": "#FF0000"},
	}).(region.LayoutRegion)
	if !updated.Style.Bold || updated.Style.Color != "#ff0000" {
		t.Errorf("style = %+v, want bold with color #ff0000", updated.Style)
	}
}

func TestRegionRemove_UnknownID(t *testing.T) {
	s := loadSession(t, 400, 300)
	argsJSON, _ := json.Marshal(map[string]interface{}{"id": "zz"})
	if _, err := s.executeTool("region_remove", argsJSON); err == nil {
		t.Error("expected error removing unknown region")
	}
}

func TestLayoutExportImportRoundTrip(t *testing.T) {
	s := loadSession(t, 400, 300)
	callTool(t, s, "region_add", map[string]interface{}{"x": 20, "y": 30, "w": 150, "h": 50})
	callTool(t, s, "region_bind", map[string]interface{}{"id": "a", "name": "NAME"})

	layoutPath := filepath.Join(t.TempDir(), "layout.json")
	callTool(t, s, "layout_export", map[string]interface{}{"path": layoutPath})

	callTool(t, s, "region_remove", map[string]interface{}{"id": "a"})
	if s.store.Len() != 0 {
		t.Fatal("expected empty store before import")
	}

	imported := callTool(t, s, "layout_import", map[string]interface{}{"path": layoutPath}).(map[string]interface{})
	if imported["count"] != 1 {
		t.Fatalf("imported count = %v, want 1", imported["count"])
	}
	r, ok := s.store.Get("a")
	if !ok || r.Binding != "NAME" {
		t.Errorf("imported region = %+v, want binding NAME", r)
	}
}

func TestLayoutImport_DimensionMismatch(t *testing.T) {
	s := loadSession(t, 400, 300)
	layout := region.Layout{TemplateWidth: 800, TemplateHeight: 600}
	layoutPath := filepath.Join(t.TempDir(), "layout.json")
	if err := layout.WriteFile(layoutPath); err != nil {
		t.Fatalf("failed to write layout: %v", err)
	}

	argsJSON, _ := json.Marshal(map[string]interface{}{"path": layoutPath})
	if _, err := s.executeTool("layout_import", argsJSON); err == nil {
		t.Error("expected dimension mismatch to be rejected")
	}
}

func writeTestCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}
	return path
}

func TestDatasetValidate(t *testing.T) {
	s := loadSession(t, 400, 300)
	callTool(t, s, "region_add", map[string]interface{}{})
	callTool(t, s, "region_bind", map[string]interface{}{"id": "a", "name": "NAME"})

	valid := callTool(t, s, "dataset_validate", map[string]interface{}{
		"path": writeTestCSV(t, "NAME\nJane\nJohn\n"),
	}).(map[string]interface{})
	if valid["valid"] != true || valid["rows"] != 2 {
		t.Errorf("result = %v, want valid with 2 rows", valid)
	}

	// Mismatched columns are an expected outcome, not a tool error.
	invalid := callTool(t, s, "dataset_validate", map[string]interface{}{
		"path": writeTestCSV(t, "NAME,SCORE\nJane,10\n"),
	}).(map[string]interface{})
	if invalid["valid"] != false {
		t.Errorf("result = %v, want valid=false", invalid)
	}
	if _, ok := invalid["problems"]; !ok {
		t.Error("expected problems in the validation result")
	}
}

func TestCertificatesGenerate(t *testing.T) {
	s := loadSession(t, 400, 300)
	callTool(t, s, "region_add", map[string]interface{}{"x": 50, "y": 100, "w": 300, "h": 80})
	callTool(t, s, "region_bind", map[string]interface{}{"id": "a", "name": "NAME"})

	outDir := t.TempDir()
	result := callTool(t, s, "certificates_generate", map[string]interface{}{
		"data_path":  writeTestCSV(t, "NAME\nJane Doe\nJohn Smith\n"),
		"output_dir": outDir,
	}).(map[string]interface{})

	if result["generated"] != 2 {
		t.Fatalf("generated = %v, want 2", result["generated"])
	}
	for _, name := range []string{"certificate_001.jpg", "certificate_002.jpg"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing output: %v", err)
		}
	}
}

func TestCertificatesGenerate_SampleOnly(t *testing.T) {
	s := loadSession(t, 400, 300)
	callTool(t, s, "region_add", map[string]interface{}{"x": 50, "y": 100, "w": 300, "h": 80})
	callTool(t, s, "region_bind", map[string]interface{}{"id": "a", "name": "NAME"})

	outDir := t.TempDir()
	result := callTool(t, s, "certificates_generate", map[string]interface{}{
		"data_path":   writeTestCSV(t, "NAME\nJane\nJohn\n"),
		"output_dir":  outDir,
		"sample_only": true,
	}).(map[string]interface{})

	if result["generated"] != 1 {
		t.Errorf("generated = %v, want 1", result["generated"])
	}
	if _, err := os.Stat(filepath.Join(outDir, "certificate_002.jpg")); !os.IsNotExist(err) {
		t.Error("sample run rendered past the first row")
	}
}

func TestCertificatesGenerate_InvalidDataset(t *testing.T) {
	s := loadSession(t, 400, 300)
	callTool(t, s, "region_add", map[string]interface{}{})
	callTool(t, s, "region_bind", map[string]interface{}{"id": "a", "name": "NAME"})

	argsJSON, _ := json.Marshal(map[string]interface{}{
		"data_path":  writeTestCSV(t, "WRONG\nJane\n"),
		"output_dir": t.TempDir(),
	})
	if _, err := s.executeTool("certificates_generate", argsJSON); err == nil {
		t.Error("expected generation to abort on a mismatched dataset")
	}
}

func TestExecuteTool_Unknown(t *testing.T) {
	s := New()
	if _, err := s.executeTool("nonexistent_tool", nil); err == nil {
		t.Error("expected error for unknown tool")
	}
}
