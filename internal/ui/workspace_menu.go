package ui

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"taskman/internal/apperr"
	"taskman/internal/model"
)

func (u *ConsoleUI) workspaceMenu() {
	for {
		u.printf("\n%s\n", strings.Repeat("-", 50))
		u.printf("  УПРАВЛЕНИЕ ПРОСТРАНСТВАМИ\n")
		u.printf("%s\n", strings.Repeat("-", 50))
		u.printf("\n1. Создать пространство\n")
		u.printf("2. Переключить пространство\n")
		u.printf("3. Переименовать пространство\n")
		u.printf("4. Удалить пространство\n")
		u.printf("5. Список пространств\n")
		u.printf("0. Назад\n")

		choice, ok := u.prompt("\nВыберите действие: ")
		if !ok || choice == "0" {
			return
		}
		switch choice {
		case "1":
			u.createWorkspaceFlow()
		case "2":
			u.switchWorkspaceFlow()
		case "3":
			u.renameWorkspaceFlow()
		case "4":
			u.deleteWorkspaceFlow()
		case "5":
			u.listWorkspaces()
		default:
			u.printf("\nНеверный выбор!\n")
		}
	}
}

func (u *ConsoleUI) createWorkspaceFlow() {
	u.printf("\n--- Создание пространства ---\n")

	name, ok := u.prompt("Введите название: ")
	if !ok {
		return
	}
	if name == "" {
		u.printf("Название не может быть пустым!\n")
		return
	}
	ws, err := u.workspaces.Create(name)
	if err != nil {
		u.log.Error("create workspace failed", zap.Error(err))
		u.printf("\nОшибка: %v\n", err)
		return
	}
	u.printf("\nПространство создано: %s\n", ws.Name)
}

func (u *ConsoleUI) switchWorkspaceFlow() {
	u.printf("\n--- Переключение пространства ---\n")

	ws, ok := u.selectWorkspace(true)
	if !ok || ws == nil {
		return
	}
	if err := u.workspaces.SetActive(ws.ID); err != nil {
		u.log.Error("set active failed", zap.Error(err))
		u.printf("\nОшибка: %v\n", err)
		return
	}
	if err := u.tasks.LoadWorkspace(ws.ID); err != nil {
		u.log.Error("load workspace failed", zap.Error(err))
		u.printf("\nОшибка: %v\n", err)
		return
	}
	u.printf("\nПереключено на: %s\n", ws.Name)
}

func (u *ConsoleUI) renameWorkspaceFlow() {
	u.printf("\n--- Переименование пространства ---\n")

	ws, ok := u.selectWorkspace(false)
	if !ok || ws == nil {
		return
	}
	name, ok := u.prompt("Новое название: ")
	if !ok {
		return
	}
	if err := u.workspaces.Update(ws.ID, &name); err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			u.printf("Название не может быть пустым!\n")
			return
		}
		u.log.Error("rename workspace failed", zap.Error(err))
		u.printf("\nОшибка: %v\n", err)
		return
	}
	u.printf("\nПространство переименовано: %s\n", ws.Name)
}

func (u *ConsoleUI) deleteWorkspaceFlow() {
	u.printf("\n--- Удаление пространства ---\n")

	if u.workspaces.Count() == 1 {
		u.printf("Нельзя удалить единственное пространство!\n")
		return
	}
	ws, ok := u.selectWorkspace(false)
	if !ok || ws == nil {
		return
	}
	if !u.confirm("\nУдалить пространство '" + ws.Name + "' и все его задачи? (да/нет): ") {
		u.printf("Отменено\n")
		return
	}
	if err := u.workspaces.Delete(ws.ID); err != nil {
		if errors.Is(err, apperr.ErrLastWorkspace) {
			u.printf("Нельзя удалить единственное пространство!\n")
			return
		}
		u.log.Error("delete workspace failed", zap.Error(err))
		u.printf("\nОшибка: %v\n", err)
		return
	}

	active, err := u.workspaces.EnsureActiveWorkspace()
	if err != nil {
		u.log.Error("ensure active failed", zap.Error(err))
		u.printf("\nОшибка: %v\n", err)
		return
	}
	if err := u.tasks.LoadWorkspace(active.ID); err != nil {
		u.log.Error("load workspace failed", zap.Error(err))
		u.printf("\nОшибка: %v\n", err)
		return
	}
	u.printf("\nПространство удалено, активно: %s\n", active.Name)
}

func (u *ConsoleUI) listWorkspaces() {
	workspaces := u.workspaces.GetAll()
	if len(workspaces) == 0 {
		u.printf("\nНет пространств\n")
		return
	}
	u.printf("\n%s\n", strings.Repeat("=", 50))
	u.printf("  СПИСОК ПРОСТРАНСТВ\n")
	u.printf("%s\n", strings.Repeat("=", 50))
	for _, ws := range workspaces {
		u.printf("\n%s %s\n", activeIcon(ws), ws.Name)
		u.printf("  ID: %s\n", shortID(ws.ID))
		u.printf("  Создано: %s\n", formatTime(ws.CreatedAt))
	}
}

// selectWorkspace lists the workspaces and reads a 1-based choice.
func (u *ConsoleUI) selectWorkspace(showActive bool) (*model.Workspace, bool) {
	workspaces := u.workspaces.GetAll()
	if len(workspaces) == 0 {
		u.printf("Нет доступных пространств\n")
		return nil, true
	}
	u.printf("\nДоступные пространства:\n")
	for i, ws := range workspaces {
		if showActive {
			u.printf("%d. %s %s\n", i+1, activeIcon(ws), ws.Name)
		} else {
			u.printf("%d. %s\n", i+1, ws.Name)
		}
	}
	choice, ok := u.prompt("\nВыберите номер: ")
	if !ok {
		return nil, false
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(workspaces) {
		u.printf("Неверный номер!\n")
		return nil, true
	}
	return workspaces[idx-1], true
}

func activeIcon(ws *model.Workspace) string {
	if ws.IsActive {
		return "(*)"
	}
	return "( )"
}
