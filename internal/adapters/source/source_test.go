package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/encoding/korean"

	"github.com/okian/vbrank/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestDecode(t *testing.T) {
	Convey("Given raw CSV bytes", t, func() {
		Convey("When the input carries a UTF-8 BOM", func() {
			out := Decode(append([]byte{0xEF, 0xBB, 0xBF}, []byte("팀명,부문")...))

			Convey("Then the BOM is dropped", func() {
				So(out, ShouldEqual, "팀명,부문")
			})
		})

		Convey("When the input is EUC-KR", func() {
			raw, err := korean.EUCKR.NewEncoder().String("팀명,부문\n서울 스파이크,남자부\n")
			So(err, ShouldBeNil)

			Convey("Then it is decoded to UTF-8", func() {
				So(Decode([]byte(raw)), ShouldEqual, "팀명,부문\n서울 스파이크,남자부\n")
			})
		})
	})
}

func TestParseCSV(t *testing.T) {
	Convey("Given CSV text", t, func() {
		Convey("When rows are ragged and padded", func() {
			text := " 팀명 , 부문 ,, 우승\n서울 스파이크 , 남자부,x, 2\n부산 블록\n,,,\n대구 네트,여자부,y,1,extra\n"
			rows, err := ParseCSV(text)

			Convey("Then labels and values are trimmed and blank rows skipped", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 3)

				v, ok := rows[0].Get("팀명")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "서울 스파이크")
				v, _ = rows[0].Get("우승")
				So(v, ShouldEqual, "2")
				So(rows[0].Len(), ShouldEqual, 3)

				So(rows[1].Len(), ShouldEqual, 1)
				_, ok = rows[1].Get("부문")
				So(ok, ShouldBeFalse)

				So(rows[2].Len(), ShouldEqual, 3)
			})
		})

		Convey("When the text is empty", func() {
			rows, err := ParseCSV("")

			Convey("Then no rows and no error are returned", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldBeEmpty)
			})
		})

		Convey("When quotes are unbalanced", func() {
			rows, err := ParseCSV("팀명,비고\n\"서울 \"스파이크\",메모\n")

			Convey("Then lazy quoting keeps the row", func() {
				So(err, ShouldBeNil)
				So(rows, ShouldHaveLength, 1)
			})
		})
	})
}

func TestFetcher(t *testing.T) {
	Convey("Given a fetcher", t, func() {
		ctx := context.Background()

		Convey("When the server fails transiently", func() {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) < 3 {
					w.WriteHeader(http.StatusServiceUnavailable)
					return
				}
				_, _ = w.Write([]byte(r.Header.Get("User-Agent")))
			}))
			defer srv.Close()

			f := NewFetcher(WithRetries(3), WithBackoff(time.Millisecond), WithUserAgent("vbrank-test"))
			body, err := f.Fetch(ctx, Source{Label: "s", URL: srv.URL})

			Convey("Then it retries until success", func() {
				So(err, ShouldBeNil)
				So(string(body), ShouldEqual, "vbrank-test")
				So(calls.Load(), ShouldEqual, 3)
			})
		})

		Convey("When the server answers 404", func() {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				http.NotFound(w, nil)
			}))
			defer srv.Close()

			f := NewFetcher(WithRetries(3), WithBackoff(time.Millisecond))
			_, err := f.Fetch(ctx, Source{Label: "s", URL: srv.URL})

			Convey("Then it fails without retrying", func() {
				So(errors.Is(err, ErrStatus), ShouldBeTrue)
				var se *StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusNotFound)
				So(calls.Load(), ShouldEqual, 1)
			})
		})

		Convey("When retries are exhausted", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer srv.Close()

			f := NewFetcher(WithRetries(1), WithBackoff(time.Millisecond))
			_, err := f.Fetch(ctx, Source{Label: "s", URL: srv.URL})

			Convey("Then the last status error is returned", func() {
				So(errors.Is(err, ErrStatus), ShouldBeTrue)
			})
		})

		Convey("When the URL cannot form a request", func() {
			f := NewFetcher(WithRetries(3), WithBackoff(time.Hour))
			start := time.Now()
			_, err := f.Fetch(ctx, Source{Label: "s", URL: "http://%zz/a.csv"})

			Convey("Then it fails at once without retrying", func() {
				So(errors.Is(err, ErrFetch), ShouldBeTrue)
				So(isTransient(err), ShouldBeFalse)
				So(time.Since(start), ShouldBeLessThan, time.Minute)
			})
		})

		Convey("When the connection is refused", func() {
			srv := httptest.NewServer(http.NotFoundHandler())
			url := srv.URL
			srv.Close()

			_, err := NewFetcher(WithRetries(0)).Fetch(ctx, Source{Label: "s", URL: url})

			Convey("Then the error is transient", func() {
				So(errors.Is(err, ErrFetch), ShouldBeTrue)
				So(isTransient(err), ShouldBeTrue)
			})
		})

		Convey("When a timeout is combined with a shared client", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			}))
			defer srv.Close()

			shared := &http.Client{}
			before := NewFetcher(WithTimeout(20*time.Millisecond), WithHTTPClient(shared), WithRetries(0))
			after := NewFetcher(WithHTTPClient(shared), WithTimeout(20*time.Millisecond), WithRetries(0))
			_, errBefore := before.Fetch(ctx, Source{Label: "s", URL: srv.URL})
			_, errAfter := after.Fetch(ctx, Source{Label: "s", URL: srv.URL})

			Convey("Then each attempt is bounded regardless of option order", func() {
				So(errors.Is(errBefore, ErrFetch), ShouldBeTrue)
				So(errors.Is(errAfter, ErrFetch), ShouldBeTrue)
			})

			Convey("Then the caller's client is not modified", func() {
				So(shared.Timeout, ShouldEqual, time.Duration(0))
			})
		})

		Convey("When the source is a local file", func() {
			p := filepath.Join(t.TempDir(), "a.csv")
			So(os.WriteFile(p, []byte("팀명\n"), 0o600), ShouldBeNil)

			body, err := NewFetcher().Fetch(ctx, Source{Label: "a", Path: p})

			Convey("Then it is read from disk", func() {
				So(err, ShouldBeNil)
				So(string(body), ShouldEqual, "팀명\n")
			})
		})

		Convey("When the local file is missing", func() {
			_, err := NewFetcher().Fetch(ctx, Source{Label: "a", Path: "/nonexistent/a.csv"})

			Convey("Then ErrFetch is returned", func() {
				So(errors.Is(err, ErrFetch), ShouldBeTrue)
			})
		})

		Convey("When the source has no location", func() {
			_, err := NewFetcher().Fetch(ctx, Source{Label: "a"})

			Convey("Then ErrFetch is returned", func() {
				So(errors.Is(err, ErrFetch), ShouldBeTrue)
			})
		})
	})
}

func TestDiscover(t *testing.T) {
	Convey("Given an index page with CSV links", t, func() {
		page := `<html><body>
<a href="data/2023.csv">2023 전국대회</a>
<a href="/abs/%EC%A0%84%EA%B5%AD.CSV"></a>
<a href="data/2023.csv">duplicate</a>
<a href="report.pdf">report</a>
<a href="https://other.example/x.csv">  외부
  자료 </a>
<a>no href</a>
</body></html>`
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page))
		}))
		defer srv.Close()

		sources, err := NewFetcher().Discover(context.Background(), srv.URL+"/files/index.html")

		Convey("Then distinct .csv links are returned in page order", func() {
			So(err, ShouldBeNil)
			So(sources, ShouldHaveLength, 3)

			So(sources[0].Label, ShouldEqual, "2023 전국대회")
			So(sources[0].URL, ShouldEqual, srv.URL+"/files/data/2023.csv")

			So(sources[1].Label, ShouldEqual, "전국")
			So(sources[1].URL, ShouldStartWith, srv.URL+"/abs/")

			So(sources[2].Label, ShouldEqual, "외부 자료")
			So(sources[2].URL, ShouldEqual, "https://other.example/x.csv")
		})
	})
}
