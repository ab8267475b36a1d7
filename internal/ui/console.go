// Package ui is the line-mode menu loop on top of the two services. It
// does all prompting, formatting and confirmation; it holds no state of
// its own beyond the input scanner.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskman/internal/model"
	"taskman/internal/service"
)

const dateFormat = "2006-01-02 15:04:05"

type ConsoleUI struct {
	tasks      *service.TaskService
	workspaces *service.WorkspaceService
	in         *bufio.Scanner
	out        io.Writer
	log        *zap.Logger
}

func NewConsoleUI(tasks *service.TaskService, workspaces *service.WorkspaceService, in io.Reader, out io.Writer, log *zap.Logger) *ConsoleUI {
	return &ConsoleUI{
		tasks:      tasks,
		workspaces: workspaces,
		in:         bufio.NewScanner(in),
		out:        out,
		log:        log,
	}
}

func (u *ConsoleUI) printf(format string, args ...any) {
	fmt.Fprintf(u.out, format, args...)
}

// prompt prints the label and reads one trimmed line. ok is false on EOF.
func (u *ConsoleUI) prompt(label string) (string, bool) {
	u.printf("%s", label)
	if !u.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(u.in.Text()), true
}

func (u *ConsoleUI) confirm(label string) bool {
	answer, ok := u.prompt(label)
	if !ok {
		return false
	}
	switch strings.ToLower(answer) {
	case "да", "yes", "y":
		return true
	}
	return false
}

// Run loads the workspaces, guarantees an active one and enters the main
// menu loop. It returns when the user exits or input ends.
func (u *ConsoleUI) Run() error {
	u.printf("\n%s\n", strings.Repeat("=", 50))
	u.printf("  Добро пожаловать в Task Manager!\n")
	u.printf("%s\n", strings.Repeat("=", 50))

	if err := u.workspaces.LoadAll(); err != nil {
		return err
	}

	active, err := u.startupWorkspace()
	if err != nil {
		return err
	}
	if active == nil {
		return nil // input ended during first-run dialog
	}
	if err := u.tasks.LoadWorkspace(active.ID); err != nil {
		return err
	}

	for {
		u.showMainMenu()
		choice, ok := u.prompt("\nВыберите действие: ")
		if !ok || choice == "0" {
			u.printf("\nДо свидания!\n")
			return nil
		}
		switch choice {
		case "1":
			u.taskMenu()
		case "2":
			u.workspaceMenu()
		case "3":
			u.showStatistics()
		default:
			u.printf("\nНеверный выбор!\n")
		}
	}
}

// startupWorkspace runs the first-run dialog when no workspace exists yet,
// otherwise self-heals via EnsureActiveWorkspace.
func (u *ConsoleUI) startupWorkspace() (*model.Workspace, error) {
	if u.workspaces.Count() > 0 {
		return u.workspaces.EnsureActiveWorkspace()
	}

	u.printf("\nЭто ваш первый запуск!\n")
	u.printf("У вас пока нет пространств задач.\n")
	answer, ok := u.prompt("\nСоздать новое пространство? (да/нет): ")
	if !ok {
		return nil, nil
	}
	switch strings.ToLower(answer) {
	case "", "да", "yes", "y":
		name, ok := u.prompt("Введите название (Enter = 'Мои задачи'): ")
		if !ok {
			return nil, nil
		}
		if name == "" {
			name = service.DefaultWorkspaceName
		}
		ws, err := u.workspaces.Create(name)
		if err != nil {
			return nil, err
		}
		if err := u.workspaces.SetActive(ws.ID); err != nil {
			return nil, err
		}
		u.printf("\nСоздано пространство: %s\n", ws.Name)
		return ws, nil
	default:
		u.printf("\nСоздание пространства по умолчанию...\n")
		ws, err := u.workspaces.CreateDefault()
		if err != nil {
			return nil, err
		}
		u.printf("Создано пространство: %s\n", ws.Name)
		return ws, nil
	}
}

func (u *ConsoleUI) showMainMenu() {
	u.printf("\n%s\n", strings.Repeat("=", 50))
	if active := u.workspaces.GetActive(); active != nil {
		u.printf("  Активное пространство: [%s]\n", active.Name)
		u.printf("  Задач: %d (выполнено: %d)\n", u.tasks.TaskCount(), u.tasks.DoneCount())
	}
	u.printf("%s\n", strings.Repeat("=", 50))
	u.printf("\n1. Управление задачами\n")
	u.printf("2. Управление пространствами\n")
	u.printf("3. Статистика\n")
	u.printf("0. Выход\n")
}

func (u *ConsoleUI) showStatistics() {
	u.printf("\n%s\n", strings.Repeat("=", 50))
	u.printf("  СТАТИСТИКА\n")
	u.printf("%s\n", strings.Repeat("=", 50))

	total := u.tasks.TaskCount()
	done := u.tasks.DoneCount()
	u.printf("\nЗадачи:\n")
	u.printf("  Всего: %d\n", total)
	u.printf("  Выполнено: %d\n", done)
	u.printf("  В работе: %d\n", total-done)
	if total > 0 {
		u.printf("  Прогресс: %.1f%%\n", float64(done)/float64(total)*100)
	}

	u.printf("\nПо дням:\n")
	all := u.tasks.AllTasks()
	for _, day := range model.Days() {
		tasks := all[day]
		if len(tasks) == 0 {
			continue
		}
		dayDone := 0
		for _, t := range tasks {
			if t.IsDone() {
				dayDone++
			}
		}
		u.printf("  %s: %d (выполнено %d)\n", day.Title(), len(tasks), dayDone)
	}

	u.printf("\nПространства:\n")
	u.printf("  Всего: %d\n", u.workspaces.Count())
	if active := u.workspaces.GetActive(); active != nil {
		u.printf("  Активное: %s\n", active.Name)
	} else {
		u.printf("  Активное: нет\n")
	}
}

// selectDay lists the seven days and reads a 1-based choice.
func (u *ConsoleUI) selectDay() (model.Day, bool) {
	u.printf("\nВыберите день недели:\n")
	days := model.Days()
	for i, day := range days {
		u.printf("%d. %s\n", i+1, day.Title())
	}
	choice, ok := u.prompt("\nВведите номер: ")
	if !ok {
		return 0, false
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(days) {
		u.printf("Неверный номер!\n")
		return 0, false
	}
	return days[idx-1], true
}

func formatTime(t time.Time) string {
	return t.Format(dateFormat)
}
