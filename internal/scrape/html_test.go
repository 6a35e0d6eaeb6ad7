package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func siteServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestContacts(t *testing.T) {
	srv := siteServer(t, map[string]string{
		"/contacts": `<html><body>
			<div class="contact-block">
				<h3>Деканат</h3>
				<p>Кімната 101,
				тел. 044-123-45-67</p>
			</div>
			<div class="contact-block extra">
				<h3>Приймальна комісія</h3>
				<p>Кімната 202</p>
			</div>
			<div class="other-block"><h3>Ігнорується</h3></div>
		</body></html>`,
	})

	entries, err := New(srv.URL).Contacts(context.Background())
	if err != nil {
		t.Fatalf("Contacts: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	if entries[0].Question != "Які контакти підрозділу Деканат?" {
		t.Errorf("question = %q", entries[0].Question)
	}
	// Block text includes the title and has whitespace collapsed.
	if entries[0].Answer != "Деканат Кімната 101, тел. 044-123-45-67" {
		t.Errorf("answer = %q", entries[0].Answer)
	}
	if entries[1].Question != "Які контакти підрозділу Приймальна комісія?" {
		t.Errorf("question = %q", entries[1].Question)
	}
}

func TestHostel_FiltersShortParagraphs(t *testing.T) {
	long := strings.Repeat("гуртожиток ", 6) // 66 runes
	srv := siteServer(t, map[string]string{
		"/hostel": `<html><body>
			<p>Коротко</p>
			<p>` + long + `</p>
		</body></html>`,
	})

	entries, err := New(srv.URL).Hostel(context.Background())
	if err != nil {
		t.Fatalf("Hostel: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	cleaned := strings.TrimSpace(long)
	wantQ := "Інформація про гуртожиток: " + string([]rune(cleaned)[:50]) + "?"
	if entries[0].Question != wantQ {
		t.Errorf("question = %q, want %q", entries[0].Question, wantQ)
	}
	if entries[0].Answer != cleaned {
		t.Errorf("answer = %q", entries[0].Answer)
	}
}

func TestAdmission_QuestionPrefix(t *testing.T) {
	txt := "Для вступу потрібні сертифікати НМТ та мотиваційний лист."
	srv := siteServer(t, map[string]string{
		"/admission": "<html><body><p>" + txt + "</p></body></html>",
	})

	entries, err := New(srv.URL).Admission(context.Background())
	if err != nil {
		t.Fatalf("Admission: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	// Shorter than the 60-rune cap, so the full text survives.
	want := "Що потрібно знати абітурієнту? " + txt + "?"
	if entries[0].Question != want {
		t.Errorf("question = %q, want %q", entries[0].Question, want)
	}
}

func TestDepartments(t *testing.T) {
	srv := siteServer(t, map[string]string{
		"/departments": `<html><body>
			<div class="department-card">
				<h3>Кафедра програмування</h3>
				<p>Алгоритми та розподілені системи.</p>
			</div>
			<div class="department-card"><h3>Без опису</h3></div>
		</body></html>`,
	})

	entries, err := New(srv.URL).Departments(context.Background())
	if err != nil {
		t.Fatalf("Departments: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Question != "Що вивчає кафедра Кафедра програмування?" {
		t.Errorf("question = %q", entries[0].Question)
	}
	if entries[0].Answer != "Алгоритми та розподілені системи." {
		t.Errorf("answer = %q", entries[0].Answer)
	}
}

func TestAll_AbortsOnMissingSection(t *testing.T) {
	srv := siteServer(t, map[string]string{
		"/contacts": `<html><body><div class="contact-block"><h3>Деканат</h3></div></body></html>`,
		// /hostel missing: the server answers 404.
	})

	_, err := New(srv.URL).All(context.Background())
	if err == nil {
		t.Fatal("expected error for missing section")
	}
	if !strings.Contains(err.Error(), "hostel") {
		t.Errorf("error %q does not name the failing section", err)
	}
}

func TestCleanText(t *testing.T) {
	got := cleanText("  а\n\tб   в ")
	if got != "а б в" {
		t.Errorf("cleanText = %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("привіт", 4); got != "прив" {
		t.Errorf("truncateRunes = %q", got)
	}
	if got := truncateRunes("hi", 10); got != "hi" {
		t.Errorf("truncateRunes short = %q", got)
	}
}
