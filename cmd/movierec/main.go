package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/John-Robertt/movierec/internal/app/session"
	"github.com/John-Robertt/movierec/internal/config"
	"github.com/John-Robertt/movierec/internal/domain"
	"github.com/John-Robertt/movierec/internal/infra/httpx"
	"github.com/John-Robertt/movierec/internal/logging"
	"github.com/John-Robertt/movierec/internal/provider"
	"github.com/John-Robertt/movierec/internal/provider/tmdb"
	"github.com/John-Robertt/movierec/internal/recommend"
)

func main() {
	if code := realMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); code != 0 {
		os.Exit(code)
	}
}

func realMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) > 0 {
		if isHelp(args[0]) {
			printUsage(stdout)
			return 0
		}
		fmt.Fprintf(stderr, "未知参数：%q\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "读取当前目录失败：%v\n", err)
		return 1
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		fmt.Fprintf(stderr, "加载配置失败：%v\n", err)
		return 1
	}
	logging.Init(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  stderr,
		NoColor: !isTTY(stderr),
	})

	return runInteractive(context.Background(), cfg, stdin, stdout)
}

// menuItems 的顺序即菜单编号（1-9）。
var menuItems = []struct {
	label     string
	criterion domain.Criterion
}{
	{"By Genre", domain.CriterionGenre},
	{"By Director", domain.CriterionDirector},
	{"By Cast", domain.CriterionCast},
	{"By Plot Keywords", domain.CriterionKeywords},
	{"By Rating", domain.CriterionRating},
	{"TMDB Recommendations (Combined)", domain.CriterionNative},
	{"Show All (All criteria)", ""},
	{"Search for a different movie", ""},
	{"Exit", ""},
}

const (
	choiceAll    = "7"
	choiceSearch = "8"
	choiceExit   = "9"
)

// runInteractive 是交互主循环。
//
// 约束：
// - 顺序、单线程；唯一的跨请求状态是 session 中的当前影片
// - 任何失败都只打印一行提示并回到菜单；只有输入流结束（EOF）才退出
func runInteractive(ctx context.Context, cfg config.Config, stdin io.Reader, stdout io.Writer) int {
	in := bufio.NewScanner(stdin)
	ui := newPresenter(stdout)
	prompt := func(msg string) (string, bool) {
		fmt.Fprint(stdout, msg)
		if !in.Scan() {
			return "", false
		}
		return strings.TrimSpace(in.Text()), true
	}

	ui.banner()

	apiKey, ok := prompt("Enter your TMDB API key (or press Enter to use default): ")
	if !ok {
		return 0
	}
	if apiKey == "" {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		ui.println("\nPlease provide a TMDB API key to use this application.")
		ui.println("You can get a free API key at: https://www.themoviedb.org/settings/api")
		return 0
	}

	sess, err := newSession(cfg, apiKey, ui)
	if err != nil {
		ui.println(fmt.Sprintf("Failed to initialize client: %v", err))
		return 1
	}

	// 首次选片失败只提示并重新询问，直到成功或输入结束。
	for {
		title, ok := prompt("\nEnter a movie title: ")
		if !ok {
			return 0
		}
		if title == "" {
			ui.println("No movie title provided.")
			continue
		}
		if _, err := sess.Select(ctx, title); err == nil {
			break
		}
	}

	for {
		ui.menu()
		choice, ok := prompt("\nEnter your choice (1-9): ")
		if !ok {
			return 0
		}

		switch choice {
		case choiceAll:
			ui.allHeader()
			sess.RecommendAll(ctx, cfg.AllLimit)
		case choiceSearch:
			t, ok := prompt("\nEnter a new movie title: ")
			if !ok {
				return 0
			}
			if t == "" {
				ui.println("No movie title provided.")
				continue
			}
			// 失败时 session 保留原影片，observer 已输出提示。
			_, _ = sess.Select(ctx, t)
		case choiceExit:
			ui.println("\nThank you for using Movie Recommendation System!")
			return 0
		default:
			c, ok := criterionForChoice(choice)
			if !ok {
				ui.println("\nInvalid choice. Please enter a number between 1 and 9.")
				continue
			}
			sess.Recommend(ctx, c, cfg.Limit)
		}
	}
}

func criterionForChoice(choice string) (domain.Criterion, bool) {
	if len(choice) != 1 || choice[0] < '1' || choice[0] > '9' {
		return "", false
	}
	item := menuItems[choice[0]-'1']
	return item.criterion, item.criterion != ""
}

func newSession(cfg config.Config, apiKey string, obs session.Observer) (*session.Session, error) {
	hc, err := httpx.NewClient(httpx.Options{
		ProxyURL:      cfg.ProxyURL,
		Timeout:       cfg.Timeout,
		RatePerSecond: cfg.RatePerSecond,
	})
	if err != nil {
		return nil, err
	}
	catalog := provider.NewBreaker(&tmdb.Client{
		APIKey:   apiKey,
		BaseURL:  cfg.BaseURL,
		Language: cfg.Language,
		HTTP:     hc,
	}, provider.BreakerSettings{})
	return session.New(catalog, recommend.NewResolver(catalog), obs), nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  movierec            启动交互式影片推荐

配置（均可选）：
  movierec.yaml       工作目录下的配置文件（或通过 MOVIEREC_CONFIG 指定路径）
  .env                工作目录下的环境变量文件（不覆盖已有变量）
  TMDB_API_KEY        默认 API key（提示输入时直接回车即使用）
  MOVIEREC_LANGUAGE   请求语言，默认 en-US
  MOVIEREC_LOG_LEVEL  日志级别（stderr），默认 error

  -h, --help          显示帮助
`)
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
